package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"testing"

	utilerror "github.com/Azure/dns-cutover-poc/test/util/error"
)

func TestRegistryRegister(t *testing.T) {
	for _, tt := range []struct {
		name    string
		zones   []*Zone
		wantErr string
	}{
		{
			name: "distinct suffixes register cleanly",
			zones: []*Zone{
				{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
				{Name: "azure.pvt", ServerAddress: "10.1.10.4", Authoritative: true},
			},
		},
		{
			name: "re-registering the same zone is idempotent",
			zones: []*Zone{
				{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
				{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
			},
		},
		{
			name: "second authoritative claim for a suffix is rejected",
			zones: []*Zone{
				{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
				{Name: "onprem.pvt", ServerAddress: "10.9.10.4", Authoritative: true},
			},
			wantErr: `suffix "onprem.pvt": authority already claimed by server 10.0.10.4`,
		},
		{
			name: "non-authoritative registration cannot usurp a held authority",
			zones: []*Zone{
				{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
				{Name: "onprem.pvt", ServerAddress: "10.9.9.9", Authoritative: false},
			},
			wantErr: `suffix "onprem.pvt": authority already claimed by server 10.0.10.4`,
		},
		{
			name: "re-registration dropping the authority flag is rejected",
			zones: []*Zone{
				{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
				{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: false},
			},
			wantErr: `suffix "onprem.pvt": authority already claimed by server 10.0.10.4`,
		},
		{
			name: "invalid server address is rejected",
			zones: []*Zone{
				{Name: "onprem.pvt", ServerAddress: "not-an-ip", Authoritative: true},
			},
			wantErr: `zone "onprem.pvt": server address "not-an-ip" is not a valid IP address`,
		},
		{
			name: "empty suffix is rejected",
			zones: []*Zone{
				{Name: "", ServerAddress: "10.0.10.4"},
			},
			wantErr: "zone suffix must not be empty",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()

			var err error
			for _, zone := range tt.zones {
				err = registry.Register(zone)
				if err != nil {
					break
				}
			}

			utilerror.AssertErrorMessage(t, err, tt.wantErr)
		})
	}
}

func TestRegisterRejectionLeavesAuthorityIntact(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&Zone{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true})
	if err != nil {
		t.Fatal(err)
	}

	err = registry.Register(&Zone{Name: "onprem.pvt", ServerAddress: "10.9.9.9", Authoritative: false})
	if err == nil {
		t.Fatal("expected the registration to be rejected")
	}

	zone, err := registry.Resolve("onprem.pvt")
	if err != nil {
		t.Fatal(err)
	}
	if zone.ServerAddress != "10.0.10.4" || !zone.Authoritative {
		t.Errorf("held zone was modified: server %s, authoritative %v", zone.ServerAddress, zone.Authoritative)
	}
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&Zone{Name: "Azure.PVT.", ServerAddress: "10.1.10.4", Authoritative: true})
	if err != nil {
		t.Fatal(err)
	}

	zone, err := registry.Resolve("azure.pvt")
	if err != nil {
		t.Fatal(err)
	}
	if zone.ServerAddress != "10.1.10.4" {
		t.Errorf("got server %s", zone.ServerAddress)
	}

	_, err = registry.Resolve("spoke1.pvt")
	if err != ErrZoneNotFound {
		t.Errorf("got error %v, wanted ErrZoneNotFound", err)
	}

	zone, err = registry.ResolveServer("10.1.10.4")
	if err != nil {
		t.Fatal(err)
	}
	if zone.Name != "azure.pvt" {
		t.Errorf("got zone %s", zone.Name)
	}
}

func TestAuthorityUniquenessAcrossSnapshots(t *testing.T) {
	registry := NewRegistry()

	zones := []*Zone{
		{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
		{Name: "azure.pvt", ServerAddress: "10.1.10.4", Authoritative: true},
		{Name: "spoke1.pvt", ServerAddress: "10.2.10.4", Authoritative: true},
		{Name: "spoke2.pvt", ServerAddress: "10.3.10.4", Authoritative: true},
	}

	for _, zone := range zones {
		if err := registry.Register(zone); err != nil {
			t.Fatal(err)
		}
	}

	seen := map[string]int{}
	for _, zone := range registry.Zones() {
		if zone.Authoritative {
			seen[zone.Name]++
		}
	}

	for suffix, count := range seen {
		if count > 1 {
			t.Errorf("suffix %s has %d authoritative zones", suffix, count)
		}
	}
}

func TestSuffixContains(t *testing.T) {
	for _, tt := range []struct {
		suffix string
		name   string
		want   bool
	}{
		{"onprem.pvt", "dns.onprem.pvt", true},
		{"onprem.pvt", "onprem.pvt", true},
		{"onprem.pvt", "dns.azure.pvt", false},
		{"blob.core.windows.net", "account.privatelink.blob.core.windows.net", true},
		{"privatelink.blob.core.windows.net", "account.blob.core.windows.net", false},
		// label boundary, not substring
		{"prem.pvt", "dns.onprem.pvt", false},
	} {
		if got := SuffixContains(tt.suffix, tt.name); got != tt.want {
			t.Errorf("SuffixContains(%q, %q) = %v, want %v", tt.suffix, tt.name, got, tt.want)
		}
	}
}

func TestZoneNames(t *testing.T) {
	zone := &Zone{Name: "onprem.pvt", ServerAddress: "10.0.10.4"}

	if zone.VNetName() != "vnet-onprem-pvt" {
		t.Error(zone.VNetName())
	}
	if zone.ServerVMName() != "dns-onprem-pvt" {
		t.Error(zone.ServerVMName())
	}
	if zone.ClientVMName() != "client-onprem-pvt" {
		t.Error(zone.ClientVMName())
	}
}
