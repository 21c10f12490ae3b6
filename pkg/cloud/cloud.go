package cloud

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"errors"
	"fmt"
)

// ProviderDefaultResolver is the sentinel VNet resolver binding meaning the
// Azure-provided DNS (the 168.63.129.16 path) rather than a custom server.
const ProviderDefaultResolver = "provider-default"

// SubnetSpec describes one subnet of a zone's network.
type SubnetSpec struct {
	Name          string
	AddressPrefix string
}

// NetworkSpec describes a zone's virtual network.
type NetworkSpec struct {
	Name          string
	AddressPrefix string
	Subnets       []SubnetSpec
}

// VMSpec describes a zone's DNS server or client VM.
type VMSpec struct {
	Name             string
	SubnetID         string
	PrivateIPAddress string
	Size             string
	AdminUsername    string
	SSHPublicKey     string
	CustomData       string
}

// Network is the result of a network provisioning call.
type Network struct {
	VNetID    string
	SubnetIDs []string
}

// Provisioner is the resource-mutation surface of the cloud provider. Every
// call is a blocking round-trip: the implementation waits for provider-side
// completion before returning.
type Provisioner interface {
	CreateNetwork(ctx context.Context, spec NetworkSpec) (*Network, error)
	CreateVM(ctx context.Context, spec VMSpec) (vmID string, err error)
	CreatePeering(ctx context.Context, vnetA, vnetB string) error

	// SetVnetResolver binds the VNet's DNS setting to the given server
	// address, or back to the Azure-provided default when dnsServer is
	// ProviderDefaultResolver.
	SetVnetResolver(ctx context.Context, vnetName string, dnsServer string) error

	// GetVnetResolver returns the VNet's current DNS binding,
	// ProviderDefaultResolver if no custom server is set.
	GetVnetResolver(ctx context.Context, vnetName string) (string, error)

	DeleteVM(ctx context.Context, vmName string) error
	DeleteNetwork(ctx context.Context, vnetName string) error
}

// CommandResult is the outcome of a script run on a VM.
type CommandResult struct {
	ExitCode int
	Stdout   string
}

// CommandRunner executes scripts on live VMs. It is used both to push
// configuration files and to run verification probes.
type CommandRunner interface {
	RunOnVM(ctx context.Context, vmName string, script []string) (*CommandResult, error)
}

// ProvisioningError wraps a failed collaborator call with the operation and
// resource it was acting on. Provisioning errors are transient-retryable at
// the step level.
type ProvisioningError struct {
	Op       string
	Resource string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// IsProvisioningError reports whether err is a collaborator failure eligible
// for bounded retry.
func IsProvisioningError(err error) bool {
	var pe *ProvisioningError
	return errors.As(err, &pe)
}
