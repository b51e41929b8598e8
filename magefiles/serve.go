//go:build mage

package main

import (
	"os"
	"os/exec"
)

// Serve runs the trainer web server from source.
func Serve() error {
	cmd := exec.Command("go", "run", cmdPkg, "serve")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Test runs the full test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
