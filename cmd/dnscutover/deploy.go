package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/env"
	"github.com/Azure/dns-cutover-poc/pkg/sequencer"
)

// deploy drives the migration forward: every zone when no zone argument is
// given, otherwise just the named zone. Reruns are safe: the state is
// re-derived from live infrastructure and already-applied steps are skipped.
func deploy(ctx context.Context, log *logrus.Entry, zone string) error {
	c, err := newCoordinator(ctx, log, env.COMPONENT_DEPLOY)
	if err != nil {
		return err
	}

	state, err := c.sequencer.DeriveState(ctx)
	if err != nil {
		return err
	}

	for zoneName, phase := range state {
		log.Printf("zone %s: derived phase %s", zoneName, phase)
	}

	if zone == "" {
		return c.sequencer.AdvanceAll(ctx)
	}

	_, err = c.sequencer.AdvanceTo(ctx, zone, sequencer.PhaseVerified)
	return err
}
