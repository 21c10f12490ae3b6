package verify

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/Azure/dns-cutover-poc/pkg/cloud"
	"github.com/Azure/dns-cutover-poc/pkg/topology"
)

// CheckResult is the outcome of one independently retried check.
type CheckResult struct {
	Name     string
	Passed   bool
	Expected string
	Observed string
	Attempts int
}

// Result bundles the checks run for one zone and phase. A phase passes only
// if every check passed; the per-check detail is always reported, never
// collapsed into a bare boolean.
type Result struct {
	Passed bool
	Checks []CheckResult
}

// Summary renders the operator-facing pass/fail line per check.
func (r *Result) Summary() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "PASS"
		if !check.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s %s: expected %q, observed %q (%d attempts)\n", status, check.Name, check.Expected, check.Observed, check.Attempts)
	}
	return b.String()
}

// Gate issues resolution probes after each cutover transition and blocks
// progression when answers, authority flags or resolver bindings do not match
// expectations. Propagation delay (DHCP renewal, zone reload) is expected, so
// every check retries with bounded backoff before reporting FAIL with the
// last observed value.
type Gate struct {
	log         *logrus.Entry
	registry    *topology.Registry
	rules       *topology.RuleSet
	resolver    Resolver
	provisioner cloud.Provisioner
	runner      cloud.CommandRunner

	backoff wait.Backoff
}

func NewGate(log *logrus.Entry, registry *topology.Registry, rules *topology.RuleSet, resolver Resolver, provisioner cloud.Provisioner, runner cloud.CommandRunner) *Gate {
	return &Gate{
		log:         log,
		registry:    registry,
		rules:       rules,
		resolver:    resolver,
		provisioner: provisioner,
		runner:      runner,

		backoff: wait.Backoff{
			Duration: 5 * time.Second,
			Factor:   2,
			Cap:      time.Minute,
			Steps:    5,
		},
	}
}

// probeFunc returns the observed value and whether it matched expectations.
// Errors count as a failed attempt, not as a verification verdict.
type probeFunc func(ctx context.Context) (observed string, ok bool, err error)

func (g *Gate) check(ctx context.Context, name, expected string, probe probeFunc) CheckResult {
	result := CheckResult{
		Name:     name,
		Expected: expected,
	}

	err := wait.ExponentialBackoffWithContext(ctx, g.backoff, func(ctx context.Context) (bool, error) {
		result.Attempts++

		observed, ok, err := probe(ctx)
		if err != nil {
			result.Observed = fmt.Sprintf("error: %v", err)
			return false, nil
		}

		result.Observed = observed
		return ok, nil
	})

	result.Passed = err == nil

	if !result.Passed {
		g.log.Warnf("check %s failed after %d attempts: expected %q, observed %q", name, result.Attempts, result.Expected, result.Observed)
	}

	return result
}

// record returns the conventional probe record for a suffix: every zone's
// authority configuration carries an A record "dns.<suffix>" pointing at the
// zone's server.
func record(suffix string) string {
	return "dns." + suffix
}

// VerifyAuthority checks the zone's server answers authoritatively for its
// own suffix: a query for the known record must carry the aa flag and the
// expected address.
func (g *Gate) VerifyAuthority(ctx context.Context, zone *topology.Zone) *Result {
	result := &Result{}

	result.Checks = append(result.Checks, g.check(ctx, fmt.Sprintf("authority/%s", zone.Name), "aa "+zone.ServerAddress, func(ctx context.Context) (string, bool, error) {
		answer, err := g.resolver.Query(ctx, zone.ServerAddress, record(zone.Name))
		if err != nil {
			return "", false, err
		}

		observed := describeAnswer(answer)
		ok := answer.Authoritative && containsAddress(answer, zone.ServerAddress)
		return observed, ok, nil
	}))

	result.Passed = allPassed(result.Checks)
	return result
}

// VerifyForwarding checks one forwarded suffix per rule: the zone's server
// must return the peer's answer without the aa flag, because forwarded
// answers are never authoritative at this hop.
func (g *Gate) VerifyForwarding(ctx context.Context, zone *topology.Zone) *Result {
	result := &Result{}

	for _, rule := range g.rules.RulesFor(zone.Name) {
		target, err := g.registry.Resolve(rule.TargetSuffix)
		if err != nil {
			// Broad public carve-outs (e.g. blob.core.windows.net) have no
			// registered peer to compare answers with; reachability of the
			// forwarder target is all that can be probed.
			continue
		}

		result.Checks = append(result.Checks, g.check(ctx, fmt.Sprintf("forwarding/%s->%s", zone.Name, rule.TargetSuffix), "noaa "+target.ServerAddress, func(ctx context.Context) (string, bool, error) {
			answer, err := g.resolver.Query(ctx, zone.ServerAddress, record(rule.TargetSuffix))
			if err != nil {
				return "", false, err
			}

			observed := describeAnswer(answer)
			ok := !answer.Authoritative && containsAddress(answer, target.ServerAddress)
			return observed, ok, nil
		}))
	}

	result.Passed = allPassed(result.Checks)
	return result
}

// VerifyResolverBinding checks both the VNet-level DNS assignment and the
// resolver actually bound on a representative VM. The VM check matters
// because DHCP lease state can lag the VNet-level change.
func (g *Gate) VerifyResolverBinding(ctx context.Context, zone *topology.Zone) *Result {
	result := &Result{}

	result.Checks = append(result.Checks, g.check(ctx, fmt.Sprintf("vnet-resolver/%s", zone.Name), zone.ServerAddress, func(ctx context.Context) (string, bool, error) {
		binding, err := g.provisioner.GetVnetResolver(ctx, zone.VNetName())
		if err != nil {
			return "", false, err
		}
		return binding, binding == zone.ServerAddress, nil
	}))

	result.Checks = append(result.Checks, g.check(ctx, fmt.Sprintf("vm-resolver/%s", zone.Name), zone.ServerAddress, func(ctx context.Context) (string, bool, error) {
		// systemd-resolved keeps the stub 127.0.0.53 in /etc/resolv.conf; the
		// DHCP-provided upstream lives in the resolved-generated file.
		res, err := g.runner.RunOnVM(ctx, zone.ClientVMName(), []string{
			"awk '/^nameserver/{print $2; exit}' /run/systemd/resolve/resolv.conf",
		})
		if err != nil {
			return "", false, err
		}

		observed := strings.TrimSpace(res.Stdout)
		return observed, observed == zone.ServerAddress, nil
	}))

	result.Passed = allPassed(result.Checks)
	return result
}

// VerifyEndToEnd runs the full gate for a zone: authority, forwarding,
// resolver binding and a cross-zone resolution for every zone in its
// forwarding dependency closure.
func (g *Gate) VerifyEndToEnd(ctx context.Context, zone *topology.Zone) *Result {
	result := &Result{}

	result.Checks = append(result.Checks, g.VerifyAuthority(ctx, zone).Checks...)
	result.Checks = append(result.Checks, g.VerifyForwarding(ctx, zone).Checks...)
	result.Checks = append(result.Checks, g.VerifyResolverBinding(ctx, zone).Checks...)

	for _, dependency := range g.rules.DependencyClosure(zone.Name) {
		peer, err := g.registry.Resolve(dependency)
		if err != nil {
			continue
		}

		result.Checks = append(result.Checks, g.check(ctx, fmt.Sprintf("cross-zone/%s->%s", zone.Name, peer.Name), peer.ServerAddress, func(ctx context.Context) (string, bool, error) {
			res, err := g.runner.RunOnVM(ctx, zone.ClientVMName(), []string{
				fmt.Sprintf("dig +short %s", record(peer.Name)),
			})
			if err != nil {
				return "", false, err
			}

			observed := strings.TrimSpace(res.Stdout)
			return observed, observed == peer.ServerAddress, nil
		}))
	}

	result.Passed = allPassed(result.Checks)
	return result
}

func describeAnswer(answer *Answer) string {
	flag := "noaa"
	if answer.Authoritative {
		flag = "aa"
	}

	if len(answer.Addresses) == 0 {
		return fmt.Sprintf("%s rcode=%d no answer", flag, answer.Rcode)
	}

	return fmt.Sprintf("%s %s", flag, strings.Join(answer.Addresses, ","))
}

func containsAddress(answer *Answer, address string) bool {
	for _, a := range answer.Addresses {
		if a == address {
			return true
		}
	}
	return false
}

func allPassed(checks []CheckResult) bool {
	for _, check := range checks {
		if !check.Passed {
			return false
		}
	}
	return true
}
