package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/env"
)

// teardown deletes every zone's VMs and networks. Deletion continues past
// individual failures so a partially deleted environment can be torn down by
// rerunning.
func teardown(ctx context.Context, log *logrus.Entry) error {
	if !*force && !confirm("delete all cutover VMs and networks") {
		return nil
	}

	c, err := newCoordinator(ctx, log, env.COMPONENT_TEARDOWN)
	if err != nil {
		return err
	}

	var errs *multierror.Error

	for _, zone := range c.registry.Zones() {
		for _, vmName := range []string{zone.ServerVMName(), zone.ClientVMName()} {
			log.Printf("deleting %s", vmName)
			if err := c.provisioner.DeleteVM(ctx, vmName); err != nil {
				errs = multierror.Append(errs, err)
			}
		}

		log.Printf("deleting %s", zone.VNetName())
		if err := c.provisioner.DeleteNetwork(ctx, zone.VNetName()); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

func confirm(action string) bool {
	fmt.Printf("%s? [y/N] ", action)

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')

	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
