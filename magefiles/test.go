//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, short, remote).
type Test mg.Namespace

// All runs every package's tests with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Short runs tests in short mode, skipping slow cases.
func (Test) Short() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Remote runs the storage engine tests against live Redis and MongoDB
// servers named by CANDLES_TEST_REDIS_ADDR and CANDLES_TEST_MONGO_URI.
func (Test) Remote() error {
	if os.Getenv("CANDLES_TEST_REDIS_ADDR") == "" && os.Getenv("CANDLES_TEST_MONGO_URI") == "" {
		fmt.Println("Set CANDLES_TEST_REDIS_ADDR or CANDLES_TEST_MONGO_URI to run remote engine tests.")
		return nil
	}
	return sh.RunV(binGo, "test", "-v", "-run", "Redis|Mongo", "./internal/kv/...")
}

// Cover writes a coverage profile to bin/cover.out and prints the summary.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := binaryDir + "/cover.out"
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func", profile)
}
