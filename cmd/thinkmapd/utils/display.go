// Package utils contains utility functions for the thinkmap daemon.
package utils

import (
	"fmt"
)

// DisplayLogo prints the thinkmap banner with version information
func DisplayLogo(version string) {
	fmt.Println()
	fmt.Println(` ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░
 ░▀█▀░█░█░▀█▀░█▀█░█░█░█▄█░█▀█░█▀█░
 ░░█░░█▀█░░█░░█░█░█▀▄░█░█░█▀█░█▀▀░
 ░░▀░░▀░▀░▀▀▀░▀░▀░▀░▀░▀░▀░▀░▀░▀░░░
 ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░`)
	fmt.Printf("\n thinkmap v%s - mind maps and essays with AI feedback\n", version)
	fmt.Println()
}
