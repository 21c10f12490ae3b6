package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/env"
)

// runVerify runs the full verification gate without mutating anything and
// prints the per-check pass/fail summary. The process exits non-zero if any
// check fails, so the command is scriptable as a smoke test.
func runVerify(ctx context.Context, log *logrus.Entry, zone string) error {
	c, err := newCoordinator(ctx, log, env.COMPONENT_VERIFY)
	if err != nil {
		return err
	}

	zones := c.registry.Zones()
	if zone != "" {
		z, err := c.registry.Resolve(zone)
		if err != nil {
			return err
		}
		zones = zones[:0]
		zones = append(zones, z)
	}

	passed := true

	for _, z := range zones {
		result := c.gate.VerifyEndToEnd(ctx, z)

		fmt.Printf("== zone %s ==\n%s", z.Name, result.Summary())

		if !result.Passed {
			passed = false
		}
	}

	if !passed {
		os.Exit(1)
	}

	return nil
}
