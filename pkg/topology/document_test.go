package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"testing"

	"github.com/go-test/deep"
)

func TestBuildDocument(t *testing.T) {
	registry := testRegistry(t)
	rules := NewRuleSet(registry)

	for _, rule := range []*ForwardingRule{
		{FromZone: "onprem.pvt", TargetSuffix: "blob.core.windows.net", TargetServer: "10.1.10.4"},
		{FromZone: "onprem.pvt", TargetSuffix: "azure.pvt", TargetServer: "10.1.10.4"},
		{FromZone: "onprem.pvt", TargetSuffix: "privatelink.blob.core.windows.net", TargetServer: "10.1.10.4"},
	} {
		if err := rules.AddRule(rule); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := BuildDocument(registry, rules, "onprem.pvt")
	if err != nil {
		t.Fatal(err)
	}

	want := &ConfigDocument{
		Zone:                  "onprem.pvt",
		ServerAddress:         "10.0.10.4",
		AuthoritativeSuffixes: []string{"onprem.pvt"},
		Forwarders: []Forwarder{
			{Suffix: "privatelink.blob.core.windows.net", Server: "10.1.10.4"},
			{Suffix: "blob.core.windows.net", Server: "10.1.10.4"},
			{Suffix: "azure.pvt", Server: "10.1.10.4"},
		},
		DnssecExemptions: []string{
			"azure.pvt",
			"blob.core.windows.net",
			"privatelink.blob.core.windows.net",
		},
	}

	for _, diff := range deep.Equal(doc, want) {
		t.Error(diff)
	}

	_, err = BuildDocument(registry, rules, "missing.pvt")
	if err != ErrZoneNotFound {
		t.Errorf("got error %v, wanted ErrZoneNotFound", err)
	}
}
