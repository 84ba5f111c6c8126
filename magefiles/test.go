//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets (all, short, cover).
type Test mg.Namespace

// All runs every test.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Short runs the tests in -short mode.
func (Test) Short() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Cover runs every test with a coverage profile and prints the per-function
// summary.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	out, err := sh.Output(binGo, "tool", "cover", "-func="+coverProfile)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
