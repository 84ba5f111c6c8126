//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for shelf using Mage.
//
// Usage:
//
//	mage build       Compile the shelf binary to bin/
//	mage test:all    Run every test
//	mage test:short  Run tests with -short
//	mage test:cover  Run tests with a coverage profile
//	mage lint        Run golangci-lint
//	mage vet         Run go vet
//	mage clean       Remove build artifacts
//	mage install     Install shelf to GOPATH/bin
package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "shelf"
	binaryDir  = "bin"
	cmdDir     = "./cmd/shelf"
)

// Build compiles the shelf binary to bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := "-X main.version=" + buildVersion()
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// buildVersion returns `git describe` for the working tree, or "dev"
// outside a git checkout.
func buildVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return "dev"
	}
	return v
}
