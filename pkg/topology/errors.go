package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"fmt"
	"strings"
)

// ErrZoneNotFound is returned by Registry.Resolve when no registered zone
// matches the queried suffix.
var ErrZoneNotFound = fmt.Errorf("zone not found")

// DuplicateAuthorityError is returned when a second zone claims authority for
// a suffix which is already authoritatively held.
type DuplicateAuthorityError struct {
	Suffix   string
	Existing string
}

func (e *DuplicateAuthorityError) Error() string {
	return fmt.Sprintf("suffix %q: authority already claimed by server %s", e.Suffix, e.Existing)
}

// SelfForwardError is returned when a zone attempts to forward its own suffix,
// which would loop queries back to the originating server.
type SelfForwardError struct {
	Zone string
}

func (e *SelfForwardError) Error() string {
	return fmt.Sprintf("zone %q: cannot forward its own suffix to a peer", e.Zone)
}

// UnknownTargetError is returned when a forwarding rule targets a server
// address which does not belong to any registered zone.
type UnknownTargetError struct {
	Zone         string
	TargetServer string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("zone %q: forwarding target %s is not a registered zone's server", e.Zone, e.TargetServer)
}

// MissingDnssecExemptionError is returned when a rule forwards to an unsigned
// private suffix while still requesting DNSSEC validation. Without the
// exemption every query under the suffix would SERVFAIL at the validating
// resolver.
type MissingDnssecExemptionError struct {
	Zone         string
	TargetSuffix string
}

func (e *MissingDnssecExemptionError) Error() string {
	return fmt.Sprintf("zone %q: private suffix %q is unsigned and requires a DNSSEC validation exemption", e.Zone, e.TargetSuffix)
}

// ForwardingLoopError is returned when adding a rule would close a forwarding
// cycle for a single suffix across multiple zones. The deliberate
// bidirectional pair (A forwards B's suffix to B, B forwards A's suffix to A)
// is not a loop because each rule matches a distinct suffix.
type ForwardingLoopError struct {
	Suffix string
	Path   []string
}

func (e *ForwardingLoopError) Error() string {
	return fmt.Sprintf("suffix %q: forwarding loop %s", e.Suffix, strings.Join(e.Path, " -> "))
}
