package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/env"
)

// plan prints the advancement order derived from the forwarding topology,
// with each zone's dependency closure. New zones change the plan without any
// hand-authored phase scripts.
func plan(ctx context.Context, log *logrus.Entry) error {
	c, err := newCoordinator(ctx, log, env.COMPONENT_TOOLING)
	if err != nil {
		return err
	}

	state, err := c.sequencer.DeriveState(ctx)
	if err != nil {
		return err
	}

	for _, zoneName := range c.sequencer.Plan() {
		dependencies := c.rules.DependencyClosure(zoneName)

		fmt.Printf("%-12s phase=%-22s depends on: %s\n", zoneName, state.Phase(zoneName), strings.Join(dependencies, ", "))
	}

	return nil
}
