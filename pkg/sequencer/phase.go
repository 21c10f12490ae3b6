package sequencer

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

// CutoverPhase is a zone's position in the migration. Phases are strictly
// ordered; a zone advances one phase at a time and never moves backwards
// except through an explicit resolver rollback.
type CutoverPhase int

const (
	PhaseUnknown CutoverPhase = iota
	PhaseProvisioned
	PhaseAuthorityConfigured
	PhaseForwardingConfigured
	PhaseResolverCutover
	PhaseVerified
)

var phaseNames = map[CutoverPhase]string{
	PhaseUnknown:              "Unknown",
	PhaseProvisioned:          "Provisioned",
	PhaseAuthorityConfigured:  "AuthorityConfigured",
	PhaseForwardingConfigured: "ForwardingConfigured",
	PhaseResolverCutover:      "ResolverCutover",
	PhaseVerified:             "Verified",
}

func (p CutoverPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown"
}

// MigrationState is the snapshot of every zone's current phase. It is owned
// by the Sequencer and recomputed from live infrastructure rather than
// persisted, so a rerun after partial failure always starts from observed
// reality.
type MigrationState map[string]CutoverPhase

// Phase returns the zone's phase, PhaseUnknown when the zone has never been
// observed.
func (s MigrationState) Phase(zone string) CutoverPhase {
	return s[zone]
}
