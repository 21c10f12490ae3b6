package armcompute

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	armcompute "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v7"
)

// VirtualMachinesClientAddons contains addons for VirtualMachinesClient
type VirtualMachinesClientAddons interface {
	CreateOrUpdateAndWait(ctx context.Context, resourceGroupName string, vmName string, parameters armcompute.VirtualMachine, options *armcompute.VirtualMachinesClientBeginCreateOrUpdateOptions) (armcompute.VirtualMachine, error)
	DeleteAndWait(ctx context.Context, resourceGroupName string, vmName string, options *armcompute.VirtualMachinesClientBeginDeleteOptions) error
	RunCommandAndWait(ctx context.Context, resourceGroupName string, vmName string, parameters armcompute.RunCommandInput, options *armcompute.VirtualMachinesClientBeginRunCommandOptions) (armcompute.RunCommandResult, error)
}

func (c *virtualMachinesClient) CreateOrUpdateAndWait(ctx context.Context, resourceGroupName string, vmName string, parameters armcompute.VirtualMachine, options *armcompute.VirtualMachinesClientBeginCreateOrUpdateOptions) (armcompute.VirtualMachine, error) {
	poller, err := c.BeginCreateOrUpdate(ctx, resourceGroupName, vmName, parameters, options)
	if err != nil {
		return armcompute.VirtualMachine{}, err
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armcompute.VirtualMachine{}, err
	}

	return resp.VirtualMachine, nil
}

func (c *virtualMachinesClient) DeleteAndWait(ctx context.Context, resourceGroupName string, vmName string, options *armcompute.VirtualMachinesClientBeginDeleteOptions) error {
	poller, err := c.BeginDelete(ctx, resourceGroupName, vmName, options)
	if err != nil {
		return err
	}

	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

func (c *virtualMachinesClient) RunCommandAndWait(ctx context.Context, resourceGroupName string, vmName string, parameters armcompute.RunCommandInput, options *armcompute.VirtualMachinesClientBeginRunCommandOptions) (armcompute.RunCommandResult, error) {
	poller, err := c.BeginRunCommand(ctx, resourceGroupName, vmName, parameters, options)
	if err != nil {
		return armcompute.RunCommandResult{}, err
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armcompute.RunCommandResult{}, err
	}

	return resp.RunCommandResult, nil
}
