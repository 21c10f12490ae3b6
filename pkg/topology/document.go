package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"encoding/json"
)

// Forwarder is one forwarding entry in a zone's configuration document.
type Forwarder struct {
	Suffix string `json:"suffix"`
	Server string `json:"server"`
}

// ConfigDocument is the declarative DNS configuration for one zone's server:
// the suffixes it answers authoritatively, the forwarders in precedence order
// and the DNSSEC validation exemptions. A server-specific renderer (BIND,
// dnsmasq) turns this into config text; the coordinator itself never emits
// server syntax.
type ConfigDocument struct {
	Zone                  string      `json:"zone"`
	ServerAddress         string      `json:"serverAddress"`
	AuthoritativeSuffixes []string    `json:"authoritativeSuffixes"`
	Forwarders            []Forwarder `json:"forwarders"`
	DnssecExemptions      []string    `json:"dnssecExemptions"`
}

// BuildDocument assembles the configuration document for the named zone from
// the registry and rule set.
func BuildDocument(registry *Registry, rules *RuleSet, zone string) (*ConfigDocument, error) {
	z, err := registry.Resolve(zone)
	if err != nil {
		return nil, err
	}

	doc := &ConfigDocument{
		Zone:             z.Name,
		ServerAddress:    z.ServerAddress,
		Forwarders:       []Forwarder{},
		DnssecExemptions: rules.DnssecExemptions(z.Name),
	}

	if z.Authoritative {
		doc.AuthoritativeSuffixes = []string{z.Name}
	}

	for _, rule := range rules.RulesFor(z.Name) {
		doc.Forwarders = append(doc.Forwarders, Forwarder{
			Suffix: rule.TargetSuffix,
			Server: rule.TargetServer,
		})
	}

	return doc, nil
}

// MarshalIndent renders the document as indented JSON for pushing to the
// zone's VM alongside the renderer.
func (d *ConfigDocument) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "    ")
}
