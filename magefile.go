//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the binary
var Default = Build

// Build builds the rednose binary
func Build() error {
	fmt.Println("Building rednose...")
	return sh.RunV("go", "build", "-o", "bin/rednose", "./cmd/rednose")
}

// Install installs rednose into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/rednose")
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll("bin")
}

// Test runs the test suite
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover runs the test suite with coverage output
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs all linters
func (Lint) All() {
	mg.Deps(Lint.Format, Lint.Vet, Lint.Golangci)
}

// Format checks code formatting
func (Lint) Format() error {
	return sh.RunV("gofmt", "-l", "-d", ".")
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint
func (Lint) Golangci() error {
	err := sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
	if err == nil || sh.CmdRan(err) {
		return err
	}
	fmt.Fprintln(os.Stderr, "golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
	return nil
}

// QA runs the full quality gate: lint, vet, test, build
func QA() error {
	mg.Deps(Lint.Vet, Test)
	return Build()
}
