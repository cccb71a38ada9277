//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "copywords"

// Default target to run when none is specified
var Default = Build

// Build builds the copywords binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/copywords")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs copywords into $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/copywords")
}

// Clean removes build artifacts
func Clean() error {
	for _, path := range []string{binary, filepath.Join("dist", binary)} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return nil
}
