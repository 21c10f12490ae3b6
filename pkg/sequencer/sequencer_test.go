package sequencer

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Azure/dns-cutover-poc/pkg/cloud"
	"github.com/Azure/dns-cutover-poc/pkg/ensure"
	"github.com/Azure/dns-cutover-poc/pkg/topology"
	mock_cloud "github.com/Azure/dns-cutover-poc/pkg/util/mocks/cloud"
	"github.com/Azure/dns-cutover-poc/pkg/verify"
	utilerror "github.com/Azure/dns-cutover-poc/test/util/error"
	testlog "github.com/Azure/dns-cutover-poc/test/util/log"
)

// fakeEnsurer records the writes the sequencer requests and answers
// AlreadyApplied probes from a fixed table keyed "zone/change".
type fakeEnsurer struct {
	applied map[string]bool
	calls   []string
}

func (f *fakeEnsurer) AlreadyApplied(ctx context.Context, zone *topology.Zone, change ensure.Change, doc *topology.ConfigDocument) (bool, error) {
	return f.applied[zone.Name+"/"+string(change)], nil
}

func (f *fakeEnsurer) EnsureApplied(ctx context.Context, zone *topology.Zone, change ensure.Change, doc *topology.ConfigDocument) (bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("apply/%s/%s", zone.Name, change))
	return true, nil
}

func (f *fakeEnsurer) EnsureVnetResolver(ctx context.Context, zone *topology.Zone, want string) (bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("resolver/%s/%s", zone.Name, want))
	return true, nil
}

// fakeVerifier passes every gate except the ones named in fail, keyed
// "<kind>/<zone>".
type fakeVerifier struct {
	fail map[string]bool
}

func (f *fakeVerifier) result(kind string, zone *topology.Zone) *verify.Result {
	passed := !f.fail[kind+"/"+zone.Name]
	return &verify.Result{
		Passed: passed,
		Checks: []verify.CheckResult{{Name: kind + "/" + zone.Name, Passed: passed, Attempts: 1}},
	}
}

func (f *fakeVerifier) VerifyAuthority(ctx context.Context, zone *topology.Zone) *verify.Result {
	return f.result("authority", zone)
}

func (f *fakeVerifier) VerifyForwarding(ctx context.Context, zone *topology.Zone) *verify.Result {
	return f.result("forwarding", zone)
}

func (f *fakeVerifier) VerifyResolverBinding(ctx context.Context, zone *topology.Zone) *verify.Result {
	return f.result("resolver-binding", zone)
}

func (f *fakeVerifier) VerifyEndToEnd(ctx context.Context, zone *topology.Zone) *verify.Result {
	return f.result("end-to-end", zone)
}

func testTopology(t *testing.T) (*topology.Registry, *topology.RuleSet) {
	t.Helper()

	registry := topology.NewRegistry()
	for _, zone := range []*topology.Zone{
		{Name: "onprem.pvt", ServerAddress: "10.0.10.4", Authoritative: true},
		{Name: "azure.pvt", ServerAddress: "10.1.10.4", Authoritative: true},
		{Name: "spoke1.pvt", ServerAddress: "10.2.10.4", Authoritative: true},
		{Name: "spoke2.pvt", ServerAddress: "10.3.10.4", Authoritative: true},
	} {
		if err := registry.Register(zone); err != nil {
			t.Fatal(err)
		}
	}

	rules := topology.NewRuleSet(registry)
	for _, rule := range []*topology.ForwardingRule{
		{FromZone: "onprem.pvt", TargetSuffix: "azure.pvt", TargetServer: "10.1.10.4"},
		{FromZone: "azure.pvt", TargetSuffix: "onprem.pvt", TargetServer: "10.0.10.4"},
		{FromZone: "azure.pvt", TargetSuffix: "spoke1.pvt", TargetServer: "10.2.10.4"},
		{FromZone: "azure.pvt", TargetSuffix: "spoke2.pvt", TargetServer: "10.3.10.4"},
		{FromZone: "spoke1.pvt", TargetSuffix: "azure.pvt", TargetServer: "10.1.10.4"},
		{FromZone: "spoke2.pvt", TargetSuffix: "azure.pvt", TargetServer: "10.1.10.4"},
	} {
		if err := rules.AddRule(rule); err != nil {
			t.Fatal(err)
		}
	}

	return registry, rules
}

func testDeployments(registry *topology.Registry) map[string]*ZoneDeployment {
	deployments := map[string]*ZoneDeployment{}
	for _, zone := range registry.Zones() {
		deployments[zone.Name] = &ZoneDeployment{
			Network:  cloud.NetworkSpec{Name: zone.VNetName()},
			ServerVM: cloud.VMSpec{Name: zone.ServerVMName()},
			ClientVM: cloud.VMSpec{Name: zone.ClientVMName()},
		}
	}
	deployments["onprem.pvt"].Peers = []string{"azure.pvt"}
	return deployments
}

func testSequencer(t *testing.T, provisioner cloud.Provisioner, ensurer Ensurer, verifier Verifier) *Sequencer {
	t.Helper()

	registry, rules := testTopology(t)

	_, log := testlog.NewCapturingLogger()
	return New(log, registry, rules, provisioner, ensurer, verifier, testDeployments(registry))
}

func TestAdvanceIdempotentAtVerified(t *testing.T) {
	// nil collaborators: a verified zone must not touch anything
	s := testSequencer(t, nil, nil, nil)
	s.state["onprem.pvt"] = PhaseVerified

	phase, err := s.Advance(context.Background(), "onprem.pvt")
	if err != nil {
		t.Fatal(err)
	}
	if phase != PhaseVerified {
		t.Errorf("got %s", phase)
	}
}

func TestAdvanceRejectsUnknownZone(t *testing.T) {
	s := testSequencer(t, nil, nil, nil)

	_, err := s.Advance(context.Background(), "missing.pvt")
	if err != topology.ErrZoneNotFound {
		t.Errorf("got error %v, wanted ErrZoneNotFound", err)
	}
}

func TestAdvancePrerequisiteNotMet(t *testing.T) {
	ensurer := &fakeEnsurer{}
	s := testSequencer(t, nil, ensurer, &fakeVerifier{})

	// hub is ready to cut over but spoke1 cannot answer yet
	s.state["azure.pvt"] = PhaseForwardingConfigured
	s.state["onprem.pvt"] = PhaseForwardingConfigured
	s.state["spoke1.pvt"] = PhaseAuthorityConfigured
	s.state["spoke2.pvt"] = PhaseForwardingConfigured

	phase, err := s.Advance(context.Background(), "azure.pvt")

	utilerror.AssertErrorMessage(t, err, `zone "azure.pvt" cannot advance: dependency "spoke1.pvt" is at AuthorityConfigured, requires ForwardingConfigured or later`)

	if phase != PhaseForwardingConfigured {
		t.Errorf("got %s, phase must not move", phase)
	}
	if len(ensurer.calls) != 0 {
		t.Errorf("prerequisite rejection must precede any mutation, got %v", ensurer.calls)
	}

	var prereqErr *PrerequisiteNotMetError
	if !errors.As(err, &prereqErr) {
		t.Fatalf("got %T", err)
	}
}

func TestAdvanceAll(t *testing.T) {
	controller := gomock.NewController(t)
	defer controller.Finish()

	provisioner := mock_cloud.NewMockProvisioner(controller)
	provisioner.EXPECT().CreateNetwork(gomock.Any(), gomock.Any()).Return(&cloud.Network{VNetID: "id", SubnetIDs: []string{"subnet"}}, nil).Times(4)
	provisioner.EXPECT().CreateVM(gomock.Any(), gomock.Any()).Return("", nil).Times(8)
	provisioner.EXPECT().CreatePeering(gomock.Any(), "vnet-onprem-pvt", "vnet-azure-pvt").Return(nil)

	ensurer := &fakeEnsurer{}
	s := testSequencer(t, provisioner, ensurer, &fakeVerifier{})

	err := s.AdvanceAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for zone, phase := range s.State() {
		if phase != PhaseVerified {
			t.Errorf("zone %s ended at %s", zone, phase)
		}
	}

	// every zone's resolver was bound to its own server exactly once
	bindings := map[string]int{}
	for _, call := range ensurer.calls {
		bindings[call]++
	}
	for zone, server := range map[string]string{
		"onprem.pvt": "10.0.10.4",
		"azure.pvt":  "10.1.10.4",
		"spoke1.pvt": "10.2.10.4",
		"spoke2.pvt": "10.3.10.4",
	} {
		if bindings[fmt.Sprintf("resolver/%s/%s", zone, server)] != 1 {
			t.Errorf("zone %s resolver binding calls: %v", zone, ensurer.calls)
		}
	}
}

func TestAdvanceVerificationFailureHaltsPhase(t *testing.T) {
	ensurer := &fakeEnsurer{}
	verifier := &fakeVerifier{fail: map[string]bool{"forwarding/onprem.pvt": true}}
	s := testSequencer(t, nil, ensurer, verifier)

	s.state["onprem.pvt"] = PhaseAuthorityConfigured

	phase, err := s.Advance(context.Background(), "onprem.pvt")

	var verr *VerificationFailure
	if !errors.As(err, &verr) {
		t.Fatalf("got %T: %v", err, err)
	}
	if verr.Zone != "onprem.pvt" || verr.Phase != PhaseForwardingConfigured {
		t.Errorf("got %+v", verr)
	}
	if phase != PhaseAuthorityConfigured {
		t.Errorf("phase advanced to %s despite failed verification", phase)
	}
	if s.state.Phase("onprem.pvt") != PhaseAuthorityConfigured {
		t.Errorf("recorded state advanced despite failed verification")
	}
}

func TestRollback(t *testing.T) {
	for _, tt := range []struct {
		name  string
		phase CutoverPhase
		want  CutoverPhase
	}{
		{
			name:  "cutover zone falls back to forwarding configured",
			phase: PhaseResolverCutover,
			want:  PhaseForwardingConfigured,
		},
		{
			name:  "verified zone falls back to forwarding configured",
			phase: PhaseVerified,
			want:  PhaseForwardingConfigured,
		},
		{
			name:  "zone before cutover keeps its phase",
			phase: PhaseAuthorityConfigured,
			want:  PhaseAuthorityConfigured,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ensurer := &fakeEnsurer{}
			s := testSequencer(t, nil, ensurer, nil)
			s.state["onprem.pvt"] = tt.phase

			err := s.Rollback(context.Background(), "onprem.pvt")
			if err != nil {
				t.Fatal(err)
			}

			if got := s.state.Phase("onprem.pvt"); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}

			// rollback rebinds the resolver but never retracts configuration
			want := []string{"resolver/onprem.pvt/" + cloud.ProviderDefaultResolver}
			if len(ensurer.calls) != 1 || ensurer.calls[0] != want[0] {
				t.Errorf("got calls %v, want %v", ensurer.calls, want)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	s := testSequencer(t, nil, nil, nil)

	// all four zones have equal-sized transitive dependency sets here, so the
	// order degrades to name order
	want := []string{"azure.pvt", "onprem.pvt", "spoke1.pvt", "spoke2.pvt"}
	got := s.Plan()

	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestDeriveState(t *testing.T) {
	controller := gomock.NewController(t)
	defer controller.Finish()

	provisioner := mock_cloud.NewMockProvisioner(controller)
	provisioner.EXPECT().GetVnetResolver(gomock.Any(), "vnet-onprem-pvt").Return("10.0.10.4", nil)
	provisioner.EXPECT().GetVnetResolver(gomock.Any(), "vnet-azure-pvt").Return(cloud.ProviderDefaultResolver, nil)
	provisioner.EXPECT().GetVnetResolver(gomock.Any(), "vnet-spoke1-pvt").Return(cloud.ProviderDefaultResolver, nil)
	provisioner.EXPECT().GetVnetResolver(gomock.Any(), "vnet-spoke2-pvt").Return("", errors.New("vnet not found"))

	ensurer := &fakeEnsurer{applied: map[string]bool{
		"onprem.pvt/authority":  true,
		"onprem.pvt/forwarders": true,
		"azure.pvt/authority":   true,
	}}

	s := testSequencer(t, provisioner, ensurer, nil)

	state, err := s.DeriveState(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for zone, want := range map[string]CutoverPhase{
		// binding matches the zone server and both changes are in place
		"onprem.pvt": PhaseResolverCutover,
		"azure.pvt":  PhaseAuthorityConfigured,
		"spoke1.pvt": PhaseProvisioned,
		"spoke2.pvt": PhaseUnknown,
	} {
		if state.Phase(zone) != want {
			t.Errorf("zone %s: got %s, want %s", zone, state.Phase(zone), want)
		}
	}
}
