package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Azure/dns-cutover-poc/pkg/env"
	testlog "github.com/Azure/dns-cutover-poc/test/util/log"
)

func testEnv(t *testing.T) env.Core {
	t.Helper()

	cfg := viper.New()
	cfg.Set(env.EnvSubscriptionID, "00000000-0000-0000-0000-000000000000")
	cfg.Set(env.EnvResourceGroup, "rg-cutover")
	cfg.Set(env.EnvLocation, "eastus")

	_, log := testlog.NewCapturingLogger()

	_env, err := env.NewCore(context.Background(), log, env.COMPONENT_TOOLING, cfg)
	if err != nil {
		t.Fatal(err)
	}

	return _env
}

func TestBuildTopology(t *testing.T) {
	registry, rules, deployments, err := buildTopology(testEnv(t))
	if err != nil {
		t.Fatal(err)
	}

	zones := registry.Zones()
	if len(zones) != 4 {
		t.Fatalf("got %d zones", len(zones))
	}

	for _, zone := range zones {
		if !zone.Authoritative {
			t.Errorf("zone %s is not authoritative", zone.Name)
		}

		deployment, ok := deployments[zone.Name]
		if !ok {
			t.Fatalf("zone %s has no deployment", zone.Name)
		}
		if deployment.Network.Name != zone.VNetName() {
			t.Errorf("zone %s network %s", zone.Name, deployment.Network.Name)
		}
		if deployment.ServerVM.PrivateIPAddress != zone.ServerAddress {
			t.Errorf("zone %s server VM address %s", zone.Name, deployment.ServerVM.PrivateIPAddress)
		}
	}

	// spokes reach both private suffixes through the hub
	for _, spoke := range []string{spoke1Suffix, spoke2Suffix} {
		closure := rules.DependencyClosure(spoke)
		if len(closure) == 0 || closure[0] != hubSuffix {
			t.Errorf("spoke %s closure %v", spoke, closure)
		}
	}
}

func TestServerCustomDataShipsRenderer(t *testing.T) {
	_, _, deployments, err := buildTopology(testEnv(t))
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := base64.StdEncoding.DecodeString(deployments[onpremSuffix].ServerVM.CustomData)
	if err != nil {
		t.Fatal(err)
	}
	customData := string(decoded)

	// EnsureApplied invokes the renderer over run-command after every push;
	// the VM image does not carry it, so cloud-init must.
	for _, want := range []string{
		"path: /usr/local/bin/dnscutover-render",
		"- bind9",
		"- jq",
		"named.conf.dnscutover",
		"[systemctl, enable, --now, named]",
	} {
		if !strings.Contains(customData, want) {
			t.Errorf("server cloud-init is missing %q", want)
		}
	}
}
