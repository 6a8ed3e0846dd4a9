package serial

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Filesystem roots, replaced in tests
var (
	devDir    = "/dev"
	sysfsRoot = "/sys"
)

// Regular expressions for the serial device families we recognise
var serialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
	regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
	regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
	regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
	regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
	regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
	regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
	regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
}

// Virtual terminals and other non-serial devices
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^tty\d+$`),
	regexp.MustCompile(`^console$`),
	regexp.MustCompile(`^ptmx$`),
	regexp.MustCompile(`^pty.*$`),
}

// isSerialName reports whether a /dev entry name looks like a serial port
func isSerialName(name string) bool {
	for _, p := range excludePatterns {
		if p.MatchString(name) {
			return false
		}
	}
	for _, p := range serialPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// ListPorts returns a list of available serial ports on the system
// Filters for communication-capable devices and excludes virtual terminals
func ListPorts() ([]string, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		name := entry.Name()
		if !isSerialName(name) {
			continue
		}

		fullPath := filepath.Join(devDir, name)
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	// Sort the ports for consistent ordering
	sort.Strings(ports)

	return ports, nil
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo holds detailed information about a serial port
type PortInfo struct {
	Name            string
	Path            string
	Description     string
	VendorID        string
	ProductID       string
	SerialNumber    string
	Manufacturer    string
	Product         string
	InterfaceNumber string
	BusNumber       string
	DeviceNumber    string
}

// IsUSB reports whether USB metadata was found for the port
func (i *PortInfo) IsUSB() bool {
	return i.VendorID != "" || i.ProductID != ""
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}

	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		enrichUSBInfo(info)
		if d := usbDescription(info); d != "" {
			info.Description = d
		}
	}

	return info, nil
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// usbDescription builds "<product> - <manufacturer>" from the USB strings,
// or returns "" when the device reports neither
func usbDescription(info *PortInfo) string {
	var parts []string
	if info.Product != "" {
		parts = append(parts, info.Product)
	}
	if info.Manufacturer != "" {
		parts = append(parts, info.Manufacturer)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " - ")
}

// enrichUSBInfo reads USB device metadata from sysfs.
//
// /sys/class/tty/<name>/device resolves to the USB interface directory for
// ttyACM devices and to a child of it for ttyUSB devices, so we walk up until
// the interface (bInterfaceNumber) and device (idVendor) directories are found.
func enrichUSBInfo(info *PortInfo) {
	link := filepath.Join(sysfsRoot, "class", "tty", info.Name, "device")
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return
	}

	interfacePath := findAncestorWith(resolved, "bInterfaceNumber")
	if interfacePath != "" {
		info.InterfaceNumber = readSysfsFile(filepath.Join(interfacePath, "bInterfaceNumber"))
	}

	usbDevicePath := findAncestorWith(resolved, "idVendor")
	if usbDevicePath == "" {
		return
	}
	info.VendorID = readSysfsFile(filepath.Join(usbDevicePath, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(usbDevicePath, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(usbDevicePath, "serial"))
	info.Manufacturer = readSysfsFile(filepath.Join(usbDevicePath, "manufacturer"))
	info.Product = readSysfsFile(filepath.Join(usbDevicePath, "product"))
	info.BusNumber = readSysfsFile(filepath.Join(usbDevicePath, "busnum"))
	info.DeviceNumber = readSysfsFile(filepath.Join(usbDevicePath, "devnum"))
}

// findAncestorWith returns the closest directory, starting at dir and
// walking up at most four levels, that contains the named file.
func findAncestorWith(dir, file string) string {
	for i := 0; i < 4; i++ {
		if _, err := os.Stat(filepath.Join(dir, file)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// readSysfsFile returns the trimmed contents of a sysfs attribute, or ""
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Descriptor is the minimal view of a port used for discovery: its device
// path and a human-readable description.
type Descriptor struct {
	Path        string
	Description string
}

// Descriptors lists every port together with its description, in the same
// order as ListPorts. Ports whose info cannot be read keep a generic
// description rather than being dropped.
func Descriptors() ([]Descriptor, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, err
	}

	descs := make([]Descriptor, 0, len(ports))
	for _, p := range ports {
		d := Descriptor{Path: p, Description: getPortDescription(filepath.Base(p))}
		if info, err := GetPortInfo(p); err == nil {
			d.Description = info.Description
		}
		descs = append(descs, d)
	}
	return descs, nil
}
