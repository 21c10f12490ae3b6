package sequencer

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"fmt"
)

// PrerequisiteNotMetError is returned by Advance when a zone cannot cut its
// resolver over because a zone it forwards to is not yet able to answer. The
// transition is rejected before any mutation; the caller satisfies the named
// prerequisite and retries.
type PrerequisiteNotMetError struct {
	Zone          string
	Dependency    string
	RequiredPhase CutoverPhase
	ActualPhase   CutoverPhase
}

func (e *PrerequisiteNotMetError) Error() string {
	return fmt.Sprintf("zone %q cannot advance: dependency %q is at %s, requires %s or later", e.Zone, e.Dependency, e.ActualPhase, e.RequiredPhase)
}

// VerificationFailure is returned when a post-mutation gate check fails after
// its retry budget. The already-applied change is left in place: it may
// simply need more propagation time, and the per-check detail lets the
// operator decide between waiting and investigating.
type VerificationFailure struct {
	Zone    string
	Phase   CutoverPhase
	Summary string
}

func (e *VerificationFailure) Error() string {
	return fmt.Sprintf("zone %q failed verification for %s:\n%s", e.Zone, e.Phase, e.Summary)
}
