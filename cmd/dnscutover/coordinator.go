package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/cloud"
	"github.com/Azure/dns-cutover-poc/pkg/ensure"
	"github.com/Azure/dns-cutover-poc/pkg/env"
	"github.com/Azure/dns-cutover-poc/pkg/sequencer"
	"github.com/Azure/dns-cutover-poc/pkg/topology"
	"github.com/Azure/dns-cutover-poc/pkg/verify"
)

type coordinator struct {
	env         env.Core
	registry    *topology.Registry
	rules       *topology.RuleSet
	provisioner cloud.Provisioner
	gate        *verify.Gate
	sequencer   *sequencer.Sequencer
}

func newCoordinator(ctx context.Context, log *logrus.Entry, component env.ServiceComponent) (*coordinator, error) {
	_env, err := env.NewCore(ctx, log, component, env.NewConfig())
	if err != nil {
		return nil, err
	}

	registry, rules, deployments, err := buildTopology(_env)
	if err != nil {
		return nil, err
	}

	manager, err := cloud.NewAzureManager(_env)
	if err != nil {
		return nil, err
	}

	ensurer := ensure.NewEnsurer(_env.Logger(), manager, manager)
	gate := verify.NewGate(_env.Logger(), registry, rules, verify.NewResolver(), manager, manager)

	return &coordinator{
		env:         _env,
		registry:    registry,
		rules:       rules,
		provisioner: manager,
		gate:        gate,
		sequencer:   sequencer.New(_env.Logger(), registry, rules, manager, ensurer, gate, deployments),
	}, nil
}
