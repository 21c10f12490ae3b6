package sequencer

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/cloud"
	"github.com/Azure/dns-cutover-poc/pkg/ensure"
	"github.com/Azure/dns-cutover-poc/pkg/topology"
	"github.com/Azure/dns-cutover-poc/pkg/util/steps"
	"github.com/Azure/dns-cutover-poc/pkg/verify"
)

// Verifier is the gate consulted after every mutating transition. Implemented
// by *verify.Gate.
type Verifier interface {
	VerifyAuthority(ctx context.Context, zone *topology.Zone) *verify.Result
	VerifyForwarding(ctx context.Context, zone *topology.Zone) *verify.Result
	VerifyResolverBinding(ctx context.Context, zone *topology.Zone) *verify.Result
	VerifyEndToEnd(ctx context.Context, zone *topology.Zone) *verify.Result
}

// Ensurer is the idempotency guard through which all configuration writes
// flow. Implemented by *ensure.Ensurer.
type Ensurer interface {
	AlreadyApplied(ctx context.Context, zone *topology.Zone, change ensure.Change, doc *topology.ConfigDocument) (bool, error)
	EnsureApplied(ctx context.Context, zone *topology.Zone, change ensure.Change, doc *topology.ConfigDocument) (bool, error)
	EnsureVnetResolver(ctx context.Context, zone *topology.Zone, want string) (bool, error)
}

// ZoneDeployment carries the provisioning inputs for one zone: its network
// layout, its DNS server VM, a representative client VM and the peered zones.
type ZoneDeployment struct {
	Network  cloud.NetworkSpec
	ServerVM cloud.VMSpec
	ClientVM cloud.VMSpec
	Peers    []string
}

// Sequencer owns the migration state machine. It is the only mutator of zone
// phases: each Advance call performs exactly one transition for one zone,
// running the mutation steps and their verification synchronously before the
// phase is recorded. The sequencer is single-threaded by design so that a
// zone's "is my peer ready" prerequisite check never observes a peer
// mid-mutation.
type Sequencer struct {
	log *logrus.Entry

	registry    *topology.Registry
	rules       *topology.RuleSet
	provisioner cloud.Provisioner
	ensurer     Ensurer
	verifier    Verifier

	deployments map[string]*ZoneDeployment
	networks    map[string]*cloud.Network

	state MigrationState
}

func New(log *logrus.Entry, registry *topology.Registry, rules *topology.RuleSet, provisioner cloud.Provisioner, ensurer Ensurer, verifier Verifier, deployments map[string]*ZoneDeployment) *Sequencer {
	return &Sequencer{
		log: log,

		registry:    registry,
		rules:       rules,
		provisioner: provisioner,
		ensurer:     ensurer,
		verifier:    verifier,

		deployments: deployments,
		networks:    map[string]*cloud.Network{},

		state: MigrationState{},
	}
}

// State returns the current snapshot. Call DeriveState to refresh it from
// live infrastructure.
func (s *Sequencer) State() MigrationState {
	state := MigrationState{}
	for zone, phase := range s.state {
		state[zone] = phase
	}
	return state
}

// DeriveState recomputes every zone's phase by probing live infrastructure,
// never by trusting a cached phase number. The coordinator is stateless
// between invocations: a rerun after partial failure resumes from whatever
// the probes observe.
func (s *Sequencer) DeriveState(ctx context.Context) (MigrationState, error) {
	state := MigrationState{}

	for _, zone := range s.registry.Zones() {
		phase := PhaseUnknown

		binding, err := s.provisioner.GetVnetResolver(ctx, zone.VNetName())
		if err != nil {
			state[zone.Name] = phase
			continue
		}
		phase = PhaseProvisioned

		doc, err := topology.BuildDocument(s.registry, s.rules, zone.Name)
		if err != nil {
			return nil, err
		}

		// A VM that is still booting makes the config probes error; that is
		// indistinguishable from "not yet configured" for our purposes.
		if applied, err := s.ensurer.AlreadyApplied(ctx, zone, ensure.ChangeAuthority, doc); err == nil && applied {
			phase = PhaseAuthorityConfigured

			if applied, err := s.ensurer.AlreadyApplied(ctx, zone, ensure.ChangeForwarders, doc); err == nil && applied {
				phase = PhaseForwardingConfigured

				if binding == zone.ServerAddress {
					// Verified is deliberately not derived from configuration
					// inspection; only a fresh gate run can grant it.
					phase = PhaseResolverCutover
				}
			}
		}

		state[zone.Name] = phase
	}

	s.state = state

	return s.State(), nil
}

// Advance performs the zone's next phase transition and returns the phase the
// zone is at afterwards. It is idempotent: a zone already at PhaseVerified is
// a no-op. The transition is rejected before any mutation if a prerequisite
// is not met.
func (s *Sequencer) Advance(ctx context.Context, zoneName string) (CutoverPhase, error) {
	zone, err := s.registry.Resolve(zoneName)
	if err != nil {
		return PhaseUnknown, err
	}

	current := s.state.Phase(zone.Name)
	if current >= PhaseVerified {
		return current, nil
	}

	target := current + 1

	// Before a zone's VNet is pointed at its own server, every zone that
	// server forwards to (transitively) must already be able to answer.
	// Cutting over earlier would black-hole names under the peer's suffix.
	// The dependency set is computed from the rule set, never assumed from a
	// fixed phase order: the hub depends on on-prem and every spoke, while
	// spokes depend only on the hub.
	if target == PhaseResolverCutover {
		for _, dependency := range s.rules.DependencyClosure(zone.Name) {
			if actual := s.state.Phase(dependency); actual < PhaseForwardingConfigured {
				return current, &PrerequisiteNotMetError{
					Zone:          zone.Name,
					Dependency:    dependency,
					RequiredPhase: PhaseForwardingConfigured,
					ActualPhase:   actual,
				}
			}
		}
	}

	stepList, err := s.transitionSteps(zone, target)
	if err != nil {
		return current, err
	}

	s.log.Printf("zone %s: %s -> %s", zone.Name, current, target)

	_, err = steps.Run(ctx, s.log, stepList)
	if err != nil {
		return current, err
	}

	s.state[zone.Name] = target

	return target, nil
}

// AdvanceTo advances the zone one phase at a time until it reaches target.
// A zone already at or past target is an idempotent no-op.
func (s *Sequencer) AdvanceTo(ctx context.Context, zoneName string, target CutoverPhase) (CutoverPhase, error) {
	zone, err := s.registry.Resolve(zoneName)
	if err != nil {
		return PhaseUnknown, err
	}

	current := s.state.Phase(zone.Name)

	for current < target {
		current, err = s.Advance(ctx, zoneName)
		if err != nil {
			return current, err
		}
	}

	return current, nil
}

// AdvanceAll drives every zone to PhaseVerified in phase-major order: all
// zones reach each phase before any zone attempts the next one. This order
// trivially satisfies the cross-zone prerequisite even for mutually
// forwarding pairs, which have no valid zone-major order.
func (s *Sequencer) AdvanceAll(ctx context.Context) error {
	order := s.Plan()

	for target := PhaseProvisioned; target <= PhaseVerified; target++ {
		for _, zoneName := range order {
			_, err := s.AdvanceTo(ctx, zoneName, target)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Plan returns the zone advancement order within each phase: fewest
// forwarding dependencies first, ties broken by name, so leaf zones settle
// before the hub that depends on them.
func (s *Sequencer) Plan() []string {
	zones := s.registry.Zones()

	names := make([]string, 0, len(zones))
	for _, zone := range zones {
		names = append(names, zone.Name)
	}

	sort.SliceStable(names, func(i, j int) bool {
		di, dj := len(s.rules.DependencyClosure(names[i])), len(s.rules.DependencyClosure(names[j]))
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})

	return names
}

// Rollback reassigns the zone's VNet binding back to the provider default.
// Authority and forwarding configuration are left in place: a configured but
// inactive forwarder is harmless, and retracting it would only destroy work a
// later retry needs again.
func (s *Sequencer) Rollback(ctx context.Context, zoneName string) error {
	zone, err := s.registry.Resolve(zoneName)
	if err != nil {
		return err
	}

	_, err = s.ensurer.EnsureVnetResolver(ctx, zone, cloud.ProviderDefaultResolver)
	if err != nil {
		return err
	}

	if s.state.Phase(zone.Name) >= PhaseResolverCutover {
		s.state[zone.Name] = PhaseForwardingConfigured
	}

	s.log.Printf("zone %s: resolver rolled back to %s", zone.Name, cloud.ProviderDefaultResolver)

	return nil
}

func (s *Sequencer) transitionSteps(zone *topology.Zone, target CutoverPhase) ([]steps.Step, error) {
	switch target {
	case PhaseProvisioned:
		deployment, ok := s.deployments[zone.Name]
		if !ok {
			return nil, fmt.Errorf("zone %q has no deployment spec", zone.Name)
		}

		return []steps.Step{
			steps.RetryingAction(cloud.IsProvisioningError, func(ctx context.Context) error {
				return s.ensureNetwork(ctx, zone, deployment)
			}),
			steps.RetryingAction(cloud.IsProvisioningError, func(ctx context.Context) error {
				return s.ensureVMs(ctx, zone, deployment)
			}),
			steps.RetryingAction(cloud.IsProvisioningError, func(ctx context.Context) error {
				return s.ensurePeerings(ctx, zone, deployment)
			}),
		}, nil

	case PhaseAuthorityConfigured:
		doc, err := topology.BuildDocument(s.registry, s.rules, zone.Name)
		if err != nil {
			return nil, err
		}

		return []steps.Step{
			steps.Action(func(ctx context.Context) error {
				_, err := s.ensurer.EnsureApplied(ctx, zone, ensure.ChangeAuthority, doc)
				return err
			}),
			s.verificationStep(zone, target, s.verifier.VerifyAuthority),
		}, nil

	case PhaseForwardingConfigured:
		doc, err := topology.BuildDocument(s.registry, s.rules, zone.Name)
		if err != nil {
			return nil, err
		}

		return []steps.Step{
			steps.Action(func(ctx context.Context) error {
				_, err := s.ensurer.EnsureApplied(ctx, zone, ensure.ChangeForwarders, doc)
				return err
			}),
			s.verificationStep(zone, target, s.verifier.VerifyForwarding),
		}, nil

	case PhaseResolverCutover:
		return []steps.Step{
			steps.Action(func(ctx context.Context) error {
				_, err := s.ensurer.EnsureVnetResolver(ctx, zone, zone.ServerAddress)
				return err
			}),
			s.verificationStep(zone, target, s.verifier.VerifyResolverBinding),
		}, nil

	case PhaseVerified:
		return []steps.Step{
			s.verificationStep(zone, target, s.verifier.VerifyEndToEnd),
		}, nil
	}

	return nil, fmt.Errorf("no transition to %s", target)
}

func (s *Sequencer) verificationStep(zone *topology.Zone, phase CutoverPhase, verifyFn func(context.Context, *topology.Zone) *verify.Result) steps.Step {
	return steps.Action(func(ctx context.Context) error {
		result := verifyFn(ctx, zone)

		s.log.Printf("zone %s: verification for %s:\n%s", zone.Name, phase, result.Summary())

		if !result.Passed {
			return &VerificationFailure{
				Zone:    zone.Name,
				Phase:   phase,
				Summary: result.Summary(),
			}
		}

		return nil
	})
}

func (s *Sequencer) ensureNetwork(ctx context.Context, zone *topology.Zone, deployment *ZoneDeployment) error {
	network, err := s.provisioner.CreateNetwork(ctx, deployment.Network)
	if err != nil {
		return err
	}

	s.networks[zone.Name] = network

	return nil
}

func (s *Sequencer) ensureVMs(ctx context.Context, zone *topology.Zone, deployment *ZoneDeployment) error {
	network := s.networks[zone.Name]

	for _, spec := range []cloud.VMSpec{deployment.ServerVM, deployment.ClientVM} {
		if spec.SubnetID == "" && network != nil && len(network.SubnetIDs) > 0 {
			spec.SubnetID = network.SubnetIDs[0]
		}

		_, err := s.provisioner.CreateVM(ctx, spec)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Sequencer) ensurePeerings(ctx context.Context, zone *topology.Zone, deployment *ZoneDeployment) error {
	for _, peerName := range deployment.Peers {
		peer, err := s.registry.Resolve(peerName)
		if err != nil {
			return err
		}

		err = s.provisioner.CreatePeering(ctx, zone.VNetName(), peer.VNetName())
		if err != nil {
			return err
		}
	}

	return nil
}
