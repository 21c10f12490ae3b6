package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/env"
)

// rollback rebinds the zone's VNet to the provider-default resolver. The
// zone's authority and forwarding configuration stay in place: they are
// harmless while inactive and a later cutover retry needs them again.
func rollback(ctx context.Context, log *logrus.Entry, zone string) error {
	if !*force && !confirm("rollback resolver binding for zone "+zone) {
		return nil
	}

	c, err := newCoordinator(ctx, log, env.COMPONENT_ROLLBACK)
	if err != nil {
		return err
	}

	_, err = c.sequencer.DeriveState(ctx)
	if err != nil {
		return err
	}

	return c.sequencer.Rollback(ctx, zone)
}
