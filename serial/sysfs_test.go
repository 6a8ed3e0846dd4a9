package serial

import (
	"os"
	"path/filepath"
	"testing"
)

func withSysfsRoot(t *testing.T, dir string) {
	t.Helper()
	old := sysfsRoot
	sysfsRoot = dir
	t.Cleanup(func() { sysfsRoot = old })
}

func writeAttrs(t *testing.T, dir string, attrs map[string]string) {
	t.Helper()
	for name, content := range attrs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// mockUSBDevice creates:
//
//	root/devices/usb5/5-2/                 USB device (idVendor, ...)
//	root/devices/usb5/5-2/5-2:1.0/         interface (bInterfaceNumber)
//	root/class/tty/<name>/device -> target
//
// target is the interface directory for ttyACM and a child of it for ttyUSB.
func mockUSBDevice(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()
	devicePath := filepath.Join(root, "devices", "usb5", "5-2")
	interfacePath := filepath.Join(devicePath, "5-2:1.0")

	target := interfacePath
	if name[:6] == "ttyUSB" {
		target = filepath.Join(interfacePath, name)
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatalf("Failed to create directory structure: %v", err)
	}
	classPath := filepath.Join(root, "class", "tty", name)
	if err := os.MkdirAll(classPath, 0755); err != nil {
		t.Fatalf("Failed to create class/tty directory: %v", err)
	}

	writeAttrs(t, devicePath, attrs)
	writeAttrs(t, interfacePath, map[string]string{"bInterfaceNumber": "00"})

	if err := os.Symlink(target, filepath.Join(classPath, "device")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}
}

func TestReadSysfsFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		content  *string
		expected string
	}{
		{"normal file", strPtr("1234\n"), "1234"},
		{"file with spaces", strPtr("  test value  \n"), "test value"},
		{"empty file", strPtr(""), ""},
		{"nonexistent file", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name)
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatalf("Setup failed: %v", err)
				}
			}
			if got := readSysfsFile(path); got != tt.expected {
				t.Errorf("readSysfsFile() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestEnrichUSBInfo(t *testing.T) {
	for _, name := range []string{"ttyUSB0", "ttyACM0"} {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			withSysfsRoot(t, root)
			mockUSBDevice(t, root, name, map[string]string{
				"idVendor":     "10c4",
				"idProduct":    "ea60",
				"serial":       "0001",
				"manufacturer": "Silicon Labs",
				"product":      "CP2102 USB to UART Bridge Controller",
				"busnum":       "5",
				"devnum":       "7",
			})

			info := &PortInfo{Name: name, Path: "/dev/" + name}
			enrichUSBInfo(info)

			tests := []struct {
				field    string
				got      string
				expected string
			}{
				{"VendorID", info.VendorID, "10c4"},
				{"ProductID", info.ProductID, "ea60"},
				{"SerialNumber", info.SerialNumber, "0001"},
				{"InterfaceNumber", info.InterfaceNumber, "00"},
				{"BusNumber", info.BusNumber, "5"},
				{"DeviceNumber", info.DeviceNumber, "7"},
				{"Manufacturer", info.Manufacturer, "Silicon Labs"},
				{"Product", info.Product, "CP2102 USB to UART Bridge Controller"},
			}
			for _, tt := range tests {
				if tt.got != tt.expected {
					t.Errorf("%s = %q, expected %q", tt.field, tt.got, tt.expected)
				}
			}
			if !info.IsUSB() {
				t.Error("Expected IsUSB to be true")
			}
		})
	}
}

// TestEnrichUSBInfoGracefulFailure checks that missing sysfs entries leave fields empty
func TestEnrichUSBInfoGracefulFailure(t *testing.T) {
	withSysfsRoot(t, t.TempDir())

	info := &PortInfo{Name: "ttyUSB999", Path: "/dev/ttyUSB999"}
	enrichUSBInfo(info)

	if info.VendorID != "" || info.ProductID != "" || info.SerialNumber != "" {
		t.Errorf("Expected empty USB fields, got %+v", info)
	}
}

func TestUSBDescription(t *testing.T) {
	tests := []struct {
		name     string
		info     PortInfo
		expected string
	}{
		{
			"product and manufacturer",
			PortInfo{Name: "ttyUSB0", Product: "CP2102 USB to UART Bridge Controller", Manufacturer: "Silicon Labs"},
			"CP2102 USB to UART Bridge Controller - Silicon Labs",
		},
		{
			"product only",
			PortInfo{Name: "ttyACM0", Product: "USB JTAG/serial debug unit"},
			"USB JTAG/serial debug unit",
		},
		{
			// must not pick up the generic "USB Serial Port" text
			"ftdi adapter",
			PortInfo{Name: "ttyUSB0", Product: "FT232R USB UART", Manufacturer: "FTDI"},
			"FT232R USB UART - FTDI",
		},
		{"no strings", PortInfo{Name: "ttyUSB0"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usbDescription(&tt.info); got != tt.expected {
				t.Errorf("usbDescription() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestDescriptorsUseUSBStrings(t *testing.T) {
	dir := fakeDevDir(t, []string{"ttyUSB0"}, nil)
	withDevDir(t, dir)
	root := t.TempDir()
	withSysfsRoot(t, root)
	mockUSBDevice(t, root, "ttyUSB0", map[string]string{
		"idVendor":     "0403",
		"idProduct":    "6001",
		"manufacturer": "FTDI",
		"product":      "FT232R USB UART",
	})

	descs, err := Descriptors()
	if err != nil {
		t.Fatalf("Descriptors failed: %v", err)
	}
	if len(descs) != 1 {
		t.Fatalf("Expected 1 descriptor, got %d", len(descs))
	}
	if descs[0].Description != "FT232R USB UART - FTDI" {
		t.Errorf("Description = %q, expected %q", descs[0].Description, "FT232R USB UART - FTDI")
	}
}
