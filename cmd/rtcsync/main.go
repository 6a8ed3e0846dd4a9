/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package main

import "github.com/allbin/rtc-sync/cmd"

func main() {
	cmd.Execute()
}
