package ensure

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/cloud"
	"github.com/Azure/dns-cutover-poc/pkg/topology"
)

// Change identifies one idempotent configuration change on a zone's server.
type Change string

const (
	ChangeAuthority  Change = "authority"
	ChangeForwarders Change = "forwarders"
)

const configDir = "/etc/dnscutover"

// Ensurer applies DNS server configuration as "ensure state X holds" rather
// than "apply delta": every mutation compares the live state first and skips
// the write when it is already in place, so repeated runs converge instead of
// duplicating stanzas.
//
// The desired state is pushed as the declarative per-zone document; the
// server-side renderer (installed by cloud-init) turns it into BIND
// configuration and reloads the daemon.
type Ensurer struct {
	log         *logrus.Entry
	runner      cloud.CommandRunner
	provisioner cloud.Provisioner
}

func NewEnsurer(log *logrus.Entry, runner cloud.CommandRunner, provisioner cloud.Provisioner) *Ensurer {
	return &Ensurer{
		log:         log,
		runner:      runner,
		provisioner: provisioner,
	}
}

// AlreadyApplied reports whether the given change is already in place on the
// zone's server, by comparing the live document fragment with the desired
// one.
func (e *Ensurer) AlreadyApplied(ctx context.Context, zone *topology.Zone, change Change, doc *topology.ConfigDocument) (bool, error) {
	desired, err := fragment(doc, change)
	if err != nil {
		return false, err
	}

	result, err := e.runner.RunOnVM(ctx, zone.ServerVMName(), []string{
		fmt.Sprintf("base64 -w0 %s/%s.json 2>/dev/null || true", configDir, change),
	})
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(result.Stdout) == base64.StdEncoding.EncodeToString(desired), nil
}

// EnsureApplied pushes the change to the zone's server unless it is already
// in place. Returns whether a write happened.
func (e *Ensurer) EnsureApplied(ctx context.Context, zone *topology.Zone, change Change, doc *topology.ConfigDocument) (bool, error) {
	applied, err := e.AlreadyApplied(ctx, zone, change, doc)
	if err != nil {
		return false, err
	}
	if applied {
		e.log.Printf("zone %s: %s configuration already applied, skipping", zone.Name, change)
		return false, nil
	}

	desired, err := fragment(doc, change)
	if err != nil {
		return false, err
	}

	encoded := base64.StdEncoding.EncodeToString(desired)

	result, err := e.runner.RunOnVM(ctx, zone.ServerVMName(), []string{
		fmt.Sprintf("mkdir -p %s", configDir),
		fmt.Sprintf("echo %s | base64 -d > %s/%s.json", encoded, configDir, change),
		fmt.Sprintf("dnscutover-render --config-dir %s && systemctl reload named", configDir),
	})
	if err != nil {
		return false, err
	}
	if result.ExitCode != 0 {
		return false, fmt.Errorf("zone %s: applying %s configuration failed: %s", zone.Name, change, result.Stdout)
	}

	e.log.Printf("zone %s: %s configuration applied", zone.Name, change)

	return true, nil
}

// EnsureVnetResolver binds the zone's VNet resolver to want, skipping the
// update when the binding already matches. Returns whether a write happened.
func (e *Ensurer) EnsureVnetResolver(ctx context.Context, zone *topology.Zone, want string) (bool, error) {
	current, err := e.provisioner.GetVnetResolver(ctx, zone.VNetName())
	if err != nil {
		return false, err
	}

	if current == want {
		e.log.Printf("vnet %s resolver already %s, skipping", zone.VNetName(), want)
		return false, nil
	}

	err = e.provisioner.SetVnetResolver(ctx, zone.VNetName(), want)
	if err != nil {
		return false, err
	}

	return true, nil
}

// fragment serializes the part of the document covered by the change, so that
// applying authority configuration does not disturb forwarding configuration
// and vice versa.
func fragment(doc *topology.ConfigDocument, change Change) ([]byte, error) {
	switch change {
	case ChangeAuthority:
		partial := &topology.ConfigDocument{
			Zone:                  doc.Zone,
			ServerAddress:         doc.ServerAddress,
			AuthoritativeSuffixes: doc.AuthoritativeSuffixes,
			Forwarders:            []topology.Forwarder{},
			DnssecExemptions:      []string{},
		}
		return partial.MarshalIndent()
	case ChangeForwarders:
		partial := &topology.ConfigDocument{
			Zone:             doc.Zone,
			ServerAddress:    doc.ServerAddress,
			Forwarders:       doc.Forwarders,
			DnssecExemptions: doc.DnssecExemptions,
		}
		return partial.MarshalIndent()
	default:
		return nil, fmt.Errorf("unknown change %q", change)
	}
}
