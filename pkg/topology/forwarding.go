package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"sort"
	"strings"
)

// ForwardingRule declares that queries under TargetSuffix received by
// FromZone's server are forwarded to TargetServer.
type ForwardingRule struct {
	// FromZone is the suffix of the zone whose server holds the rule.
	FromZone string

	// TargetSuffix is the suffix the rule matches, e.g. "azure.pvt" or
	// "privatelink.blob.core.windows.net".
	TargetSuffix string

	// TargetServer is the address of the server queries are forwarded to. It
	// must be a registered zone's server.
	TargetServer string

	// ValidateDnssec requests upstream DNSSEC validation of forwarded
	// answers. It must be false for private suffixes, which are unsigned.
	ValidateDnssec bool
}

// RuleSet holds the forwarding rules and DNSSEC validation exemptions for all
// zones. Rules are validated against the Registry at add time; a rule that
// would loop, self-forward, target an unknown server or validate an unsigned
// suffix is rejected before it is stored.
type RuleSet struct {
	registry *Registry
	rules    map[string][]*ForwardingRule
}

func NewRuleSet(registry *Registry) *RuleSet {
	return &RuleSet{
		registry: registry,
		rules:    map[string][]*ForwardingRule{},
	}
}

// AddRule validates and stores a forwarding rule. Adding an identical rule
// twice is an idempotent no-op.
func (s *RuleSet) AddRule(rule *ForwardingRule) error {
	fromZone, err := s.registry.Resolve(rule.FromZone)
	if err != nil {
		return err
	}

	targetSuffix := canonicalSuffix(rule.TargetSuffix)

	if targetSuffix == fromZone.Name {
		return &SelfForwardError{Zone: fromZone.Name}
	}

	targetZone, err := s.registry.ResolveServer(rule.TargetServer)
	if err != nil {
		return &UnknownTargetError{
			Zone:         fromZone.Name,
			TargetServer: rule.TargetServer,
		}
	}

	// Private zone suffixes are not signed in the global DNS tree. A rule
	// which both forwards to a private authoritative suffix and insists on
	// DNSSEC validation would make every answer SERVFAIL, so it is rejected
	// here rather than discovered in production.
	if rule.ValidateDnssec {
		if target, err := s.registry.Resolve(targetSuffix); err == nil && target.Authoritative {
			return &MissingDnssecExemptionError{
				Zone:         fromZone.Name,
				TargetSuffix: targetSuffix,
			}
		}
	}

	if path, ok := s.wouldLoop(fromZone.Name, targetSuffix, targetZone.Name); ok {
		return &ForwardingLoopError{
			Suffix: targetSuffix,
			Path:   path,
		}
	}

	stored := &ForwardingRule{
		FromZone:       fromZone.Name,
		TargetSuffix:   targetSuffix,
		TargetServer:   rule.TargetServer,
		ValidateDnssec: rule.ValidateDnssec,
	}

	for _, existing := range s.rules[fromZone.Name] {
		if existing.TargetSuffix == stored.TargetSuffix {
			// Same suffix, same target: already applied. Same suffix,
			// different target: replace, a forwarder holds one upstream per
			// suffix.
			*existing = *stored
			return nil
		}
	}

	s.rules[fromZone.Name] = append(s.rules[fromZone.Name], stored)

	return nil
}

// wouldLoop follows the chain of rules matching a single suffix, starting at
// the prospective rule's target zone. If the chain returns to the originating
// zone the new rule would close a query loop for that suffix.
func (s *RuleSet) wouldLoop(fromZone, suffix, targetZone string) ([]string, bool) {
	path := []string{fromZone}
	current := targetZone

	for {
		if current == fromZone {
			return append(path, current), true
		}
		path = append(path, current)

		next := ""
		for _, rule := range s.rules[current] {
			if rule.TargetSuffix == suffix {
				if zone, err := s.registry.ResolveServer(rule.TargetServer); err == nil {
					next = zone.Name
				}
				break
			}
		}
		if next == "" {
			return nil, false
		}
		current = next
	}
}

// RulesFor returns the zone's forwarding rules in forwarder precedence order:
// more specific suffixes first, because the DNS engine dispatches on
// longest-suffix match and a broad rule listed first would shadow
// "privatelink." carve-outs.
func (s *RuleSet) RulesFor(zone string) []*ForwardingRule {
	rules := make([]*ForwardingRule, len(s.rules[canonicalSuffix(zone)]))
	copy(rules, s.rules[canonicalSuffix(zone)])

	sort.SliceStable(rules, func(i, j int) bool {
		li, lj := labelCount(rules[i].TargetSuffix), labelCount(rules[j].TargetSuffix)
		if li != lj {
			return li > lj
		}
		return rules[i].TargetSuffix < rules[j].TargetSuffix
	})

	return rules
}

// DnssecExemptions returns the suffixes on the zone's server which must be
// exempted from DNSSEC validation: every forwarded suffix whose rule has
// validation disabled. A rule with validation enabled deliberately gets no
// exemption; AddRule only admits such a rule when its target suffix is not a
// registered private zone, i.e. when the suffix lives in the signed public
// tree and validation can actually succeed.
func (s *RuleSet) DnssecExemptions(zone string) []string {
	exemptions := []string{}
	for _, rule := range s.RulesFor(zone) {
		if !rule.ValidateDnssec {
			exemptions = append(exemptions, rule.TargetSuffix)
		}
	}

	sort.Strings(exemptions)

	return exemptions
}

// DependencyClosure returns the names of every zone the given zone needs for
// resolution, walking forwarding targets transitively: a spoke forwarding to
// the hub depends on every zone the hub in turn forwards to.
func (s *RuleSet) DependencyClosure(zone string) []string {
	visited := map[string]bool{}

	var walk func(name string)
	walk = func(name string) {
		for _, rule := range s.rules[name] {
			target, err := s.registry.ResolveServer(rule.TargetServer)
			if err != nil || visited[target.Name] || target.Name == canonicalSuffix(zone) {
				continue
			}
			visited[target.Name] = true
			walk(target.Name)
		}
	}
	walk(canonicalSuffix(zone))

	closure := make([]string, 0, len(visited))
	for name := range visited {
		closure = append(closure, name)
	}
	sort.Strings(closure)

	return closure
}

func labelCount(suffix string) int {
	return len(strings.Split(suffix, "."))
}
