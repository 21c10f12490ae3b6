package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"fmt"
	"net"
	"sort"
	"strings"
)

// Zone describes one network zone's DNS footprint: the private suffix it
// serves, the address of its DNS server and the VNet whose resolver will be
// cut over to that server.
type Zone struct {
	// Name is the zone's private DNS suffix, e.g. "onprem.pvt".
	Name string

	// ServerAddress is the IPv4 address of the zone's DNS server.
	ServerAddress string

	// VNetID is the Azure resource ID of the zone's virtual network.
	VNetID string

	// Authoritative records whether the zone's server answers authoritatively
	// for Name, as opposed to purely forwarding.
	Authoritative bool
}

// Registry is the single source of truth for zone definitions. Every other
// component resolves suffixes against it before emitting configuration.
type Registry struct {
	zones map[string]*Zone
}

func NewRegistry() *Registry {
	return &Registry{
		zones: map[string]*Zone{},
	}
}

// Register adds a zone. At most one registered zone may claim authority for a
// given suffix; a second authoritative claim is rejected before any state
// changes.
func (r *Registry) Register(zone *Zone) error {
	if zone.Name == "" {
		return fmt.Errorf("zone suffix must not be empty")
	}

	if net.ParseIP(zone.ServerAddress) == nil {
		return fmt.Errorf("zone %q: server address %q is not a valid IP address", zone.Name, zone.ServerAddress)
	}

	suffix := canonicalSuffix(zone.Name)

	if existing, ok := r.zones[suffix]; ok && existing.Authoritative {
		// Re-registering the identical authoritative zone is an idempotent
		// update. Anything else, a different server or a registration without
		// the authority flag, would silently usurp or drop the held authority.
		if !zone.Authoritative || existing.ServerAddress != zone.ServerAddress {
			return &DuplicateAuthorityError{
				Suffix:   suffix,
				Existing: existing.ServerAddress,
			}
		}
	}

	z := *zone
	z.Name = suffix
	r.zones[suffix] = &z

	return nil
}

// Resolve returns the registered zone whose suffix exactly matches the given
// suffix, or ErrZoneNotFound.
func (r *Registry) Resolve(suffix string) (*Zone, error) {
	zone, ok := r.zones[canonicalSuffix(suffix)]
	if !ok {
		return nil, ErrZoneNotFound
	}

	return zone, nil
}

// ResolveServer returns the registered zone whose DNS server has the given
// address, or ErrZoneNotFound.
func (r *Registry) ResolveServer(serverAddress string) (*Zone, error) {
	for _, zone := range r.zones {
		if zone.ServerAddress == serverAddress {
			return zone, nil
		}
	}

	return nil, ErrZoneNotFound
}

// Zones returns all registered zones ordered by suffix.
func (r *Registry) Zones() []*Zone {
	zones := make([]*Zone, 0, len(r.zones))
	for _, zone := range r.zones {
		zones = append(zones, zone)
	}

	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })

	return zones
}

// ResourceName derives the zone's Azure resource naming stem from its suffix,
// e.g. "onprem.pvt" -> "onprem-pvt".
func (z *Zone) ResourceName() string {
	return strings.ReplaceAll(z.Name, ".", "-")
}

// VNetName is the name of the zone's virtual network.
func (z *Zone) VNetName() string {
	return "vnet-" + z.ResourceName()
}

// ServerVMName is the name of the zone's DNS server VM.
func (z *Zone) ServerVMName() string {
	return "dns-" + z.ResourceName()
}

// ClientVMName is the name of the zone's representative client VM, used for
// resolver-binding probes.
func (z *Zone) ClientVMName() string {
	return "client-" + z.ResourceName()
}

func canonicalSuffix(suffix string) string {
	return strings.ToLower(strings.Trim(suffix, "."))
}

// SuffixContains reports whether name falls under suffix, matching on label
// boundaries the way a DNS forwarder dispatches.
func SuffixContains(suffix, name string) bool {
	suffix = canonicalSuffix(suffix)
	name = canonicalSuffix(name)

	return name == suffix || strings.HasSuffix(name, "."+suffix)
}
