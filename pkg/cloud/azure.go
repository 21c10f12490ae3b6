package cloud

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	sdkarmcompute "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v7"
	sdkarmnetwork "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dns-cutover-poc/pkg/env"
	"github.com/Azure/dns-cutover-poc/pkg/util/azureclient/azuresdk/armcompute"
	"github.com/Azure/dns-cutover-poc/pkg/util/azureclient/azuresdk/armnetwork"
)

type azureManager struct {
	log *logrus.Entry
	env env.Core

	virtualNetworks        armnetwork.VirtualNetworksClient
	virtualNetworkPeerings armnetwork.VirtualNetworkPeeringsClient
	interfaces             armnetwork.InterfacesClient
	virtualMachines        armcompute.VirtualMachinesClient
}

var _ Provisioner = &azureManager{}
var _ CommandRunner = &azureManager{}

// NewAzureManager builds the Provisioner/CommandRunner pair on top of the ARM
// SDK clients for the environment's subscription.
func NewAzureManager(_env env.Core) (*azureManager, error) {
	credential, err := _env.NewTokenCredential()
	if err != nil {
		return nil, err
	}

	virtualNetworks, err := armnetwork.NewVirtualNetworksClient(_env.SubscriptionID(), credential, nil)
	if err != nil {
		return nil, err
	}

	virtualNetworkPeerings, err := armnetwork.NewVirtualNetworkPeeringsClient(_env.SubscriptionID(), credential, nil)
	if err != nil {
		return nil, err
	}

	interfaces, err := armnetwork.NewInterfacesClient(_env.SubscriptionID(), credential, nil)
	if err != nil {
		return nil, err
	}

	virtualMachines, err := armcompute.NewVirtualMachinesClient(_env.SubscriptionID(), credential, nil)
	if err != nil {
		return nil, err
	}

	return &azureManager{
		log: _env.Logger(),
		env: _env,

		virtualNetworks:        virtualNetworks,
		virtualNetworkPeerings: virtualNetworkPeerings,
		interfaces:             interfaces,
		virtualMachines:        virtualMachines,
	}, nil
}

func (m *azureManager) CreateNetwork(ctx context.Context, spec NetworkSpec) (*Network, error) {
	subnets := make([]*sdkarmnetwork.Subnet, 0, len(spec.Subnets))
	for _, subnet := range spec.Subnets {
		subnets = append(subnets, &sdkarmnetwork.Subnet{
			Name: to.Ptr(subnet.Name),
			Properties: &sdkarmnetwork.SubnetPropertiesFormat{
				AddressPrefix: to.Ptr(subnet.AddressPrefix),
			},
		})
	}

	vnet, err := m.virtualNetworks.CreateOrUpdateAndWait(ctx, m.env.ResourceGroup(), spec.Name, sdkarmnetwork.VirtualNetwork{
		Location: to.Ptr(m.env.Location()),
		Properties: &sdkarmnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &sdkarmnetwork.AddressSpace{
				AddressPrefixes: []*string{to.Ptr(spec.AddressPrefix)},
			},
			Subnets: subnets,
		},
	}, nil)
	if err != nil {
		return nil, &ProvisioningError{Op: "create virtual network", Resource: spec.Name, Err: err}
	}

	network := &Network{VNetID: *vnet.ID}
	for _, subnet := range vnet.Properties.Subnets {
		network.SubnetIDs = append(network.SubnetIDs, *subnet.ID)
	}

	return network, nil
}

func (m *azureManager) CreateVM(ctx context.Context, spec VMSpec) (string, error) {
	nic, err := m.interfaces.CreateOrUpdateAndWait(ctx, m.env.ResourceGroup(), spec.Name+"-nic", sdkarmnetwork.Interface{
		Location: to.Ptr(m.env.Location()),
		Properties: &sdkarmnetwork.InterfacePropertiesFormat{
			IPConfigurations: []*sdkarmnetwork.InterfaceIPConfiguration{
				{
					Name: to.Ptr("ipconfig0"),
					Properties: &sdkarmnetwork.InterfaceIPConfigurationPropertiesFormat{
						Subnet: &sdkarmnetwork.Subnet{
							ID: to.Ptr(spec.SubnetID),
						},
						PrivateIPAllocationMethod: to.Ptr(sdkarmnetwork.IPAllocationMethodStatic),
						PrivateIPAddress:          to.Ptr(spec.PrivateIPAddress),
					},
				},
			},
		},
	}, nil)
	if err != nil {
		return "", &ProvisioningError{Op: "create network interface", Resource: spec.Name + "-nic", Err: err}
	}

	size := spec.Size
	if size == "" {
		size = "Standard_D2s_v3"
	}

	vm, err := m.virtualMachines.CreateOrUpdateAndWait(ctx, m.env.ResourceGroup(), spec.Name, sdkarmcompute.VirtualMachine{
		Location: to.Ptr(m.env.Location()),
		Properties: &sdkarmcompute.VirtualMachineProperties{
			HardwareProfile: &sdkarmcompute.HardwareProfile{
				VMSize: to.Ptr(sdkarmcompute.VirtualMachineSizeTypes(size)),
			},
			StorageProfile: &sdkarmcompute.StorageProfile{
				ImageReference: &sdkarmcompute.ImageReference{
					Publisher: to.Ptr("Canonical"),
					Offer:     to.Ptr("0001-com-ubuntu-server-jammy"),
					SKU:       to.Ptr("22_04-lts-gen2"),
					Version:   to.Ptr("latest"),
				},
				OSDisk: &sdkarmcompute.OSDisk{
					CreateOption: to.Ptr(sdkarmcompute.DiskCreateOptionTypesFromImage),
					ManagedDisk: &sdkarmcompute.ManagedDiskParameters{
						StorageAccountType: to.Ptr(sdkarmcompute.StorageAccountTypesPremiumLRS),
					},
				},
			},
			OSProfile: &sdkarmcompute.OSProfile{
				ComputerName:  to.Ptr(spec.Name),
				AdminUsername: to.Ptr(spec.AdminUsername),
				CustomData:    to.Ptr(spec.CustomData),
				LinuxConfiguration: &sdkarmcompute.LinuxConfiguration{
					DisablePasswordAuthentication: to.Ptr(true),
					SSH: &sdkarmcompute.SSHConfiguration{
						PublicKeys: []*sdkarmcompute.SSHPublicKey{
							{
								Path:    to.Ptr(fmt.Sprintf("/home/%s/.ssh/authorized_keys", spec.AdminUsername)),
								KeyData: to.Ptr(spec.SSHPublicKey),
							},
						},
					},
				},
			},
			NetworkProfile: &sdkarmcompute.NetworkProfile{
				NetworkInterfaces: []*sdkarmcompute.NetworkInterfaceReference{
					{
						ID: nic.ID,
					},
				},
			},
		},
	}, nil)
	if err != nil {
		return "", &ProvisioningError{Op: "create virtual machine", Resource: spec.Name, Err: err}
	}

	return *vm.ID, nil
}

func (m *azureManager) CreatePeering(ctx context.Context, vnetA, vnetB string) error {
	// Peerings are directional; both halves are required for traffic to flow.
	for _, pair := range [][2]string{{vnetA, vnetB}, {vnetB, vnetA}} {
		local, remote := pair[0], pair[1]

		remoteVnet, err := m.virtualNetworks.Get(ctx, m.env.ResourceGroup(), remote, nil)
		if err != nil {
			return &ProvisioningError{Op: "get virtual network", Resource: remote, Err: err}
		}

		err = m.virtualNetworkPeerings.CreateOrUpdateAndWait(ctx, m.env.ResourceGroup(), local, fmt.Sprintf("peer-%s-to-%s", local, remote), sdkarmnetwork.VirtualNetworkPeering{
			Properties: &sdkarmnetwork.VirtualNetworkPeeringPropertiesFormat{
				RemoteVirtualNetwork: &sdkarmnetwork.SubResource{
					ID: remoteVnet.ID,
				},
				AllowVirtualNetworkAccess: to.Ptr(true),
				AllowForwardedTraffic:     to.Ptr(true),
			},
		}, nil)
		if err != nil {
			return &ProvisioningError{Op: "create peering", Resource: local, Err: err}
		}
	}

	return nil
}

func (m *azureManager) SetVnetResolver(ctx context.Context, vnetName string, dnsServer string) error {
	vnet, err := m.virtualNetworks.Get(ctx, m.env.ResourceGroup(), vnetName, nil)
	if err != nil {
		return &ProvisioningError{Op: "get virtual network", Resource: vnetName, Err: err}
	}

	if dnsServer == ProviderDefaultResolver {
		vnet.Properties.DhcpOptions = &sdkarmnetwork.DhcpOptions{
			DNSServers: []*string{},
		}
	} else {
		vnet.Properties.DhcpOptions = &sdkarmnetwork.DhcpOptions{
			DNSServers: []*string{to.Ptr(dnsServer)},
		}
	}

	_, err = m.virtualNetworks.CreateOrUpdateAndWait(ctx, m.env.ResourceGroup(), vnetName, vnet.VirtualNetwork, nil)
	if err != nil {
		return &ProvisioningError{Op: "update virtual network dns servers", Resource: vnetName, Err: err}
	}

	m.log.Printf("vnet %s resolver set to %s", vnetName, dnsServer)

	return nil
}

func (m *azureManager) GetVnetResolver(ctx context.Context, vnetName string) (string, error) {
	vnet, err := m.virtualNetworks.Get(ctx, m.env.ResourceGroup(), vnetName, nil)
	if err != nil {
		return "", &ProvisioningError{Op: "get virtual network", Resource: vnetName, Err: err}
	}

	if vnet.Properties.DhcpOptions == nil || len(vnet.Properties.DhcpOptions.DNSServers) == 0 {
		return ProviderDefaultResolver, nil
	}

	return *vnet.Properties.DhcpOptions.DNSServers[0], nil
}

func (m *azureManager) DeleteVM(ctx context.Context, vmName string) error {
	err := m.virtualMachines.DeleteAndWait(ctx, m.env.ResourceGroup(), vmName, nil)
	if err != nil {
		return &ProvisioningError{Op: "delete virtual machine", Resource: vmName, Err: err}
	}

	err = m.interfaces.DeleteAndWait(ctx, m.env.ResourceGroup(), vmName+"-nic", nil)
	if err != nil {
		return &ProvisioningError{Op: "delete network interface", Resource: vmName + "-nic", Err: err}
	}

	return nil
}

func (m *azureManager) DeleteNetwork(ctx context.Context, vnetName string) error {
	err := m.virtualNetworks.DeleteAndWait(ctx, m.env.ResourceGroup(), vnetName, nil)
	if err != nil {
		return &ProvisioningError{Op: "delete virtual network", Resource: vnetName, Err: err}
	}

	return nil
}

func (m *azureManager) RunOnVM(ctx context.Context, vmName string, script []string) (*CommandResult, error) {
	scriptPtrs := make([]*string, 0, len(script))
	for _, line := range script {
		scriptPtrs = append(scriptPtrs, to.Ptr(line))
	}

	result, err := m.virtualMachines.RunCommandAndWait(ctx, m.env.ResourceGroup(), vmName, sdkarmcompute.RunCommandInput{
		CommandID: to.Ptr("RunShellScript"),
		Script:    scriptPtrs,
	}, nil)
	if err != nil {
		return nil, &ProvisioningError{Op: "run command", Resource: vmName, Err: err}
	}

	return parseRunCommandResult(result), nil
}

// parseRunCommandResult digs stdout out of the run-command instance view. The
// provider multiplexes stdout and stderr into one status message behind
// "[stdout]"/"[stderr]" markers and does not report the script's exit code, so
// a non-empty [stderr] section is the only failure signal available.
func parseRunCommandResult(result sdkarmcompute.RunCommandResult) *CommandResult {
	out := &CommandResult{}

	for _, status := range result.Value {
		if status.Message == nil {
			continue
		}

		message := *status.Message
		stdoutIdx := strings.Index(message, "[stdout]")
		stderrIdx := strings.Index(message, "[stderr]")

		if stdoutIdx >= 0 && stderrIdx > stdoutIdx {
			out.Stdout = strings.TrimSpace(message[stdoutIdx+len("[stdout]") : stderrIdx])
			if strings.TrimSpace(message[stderrIdx+len("[stderr]"):]) != "" {
				out.ExitCode = 1
			}
		} else {
			out.Stdout = strings.TrimSpace(message)
		}
	}

	return out
}
