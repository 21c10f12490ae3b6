package env

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type ServiceComponent string

const (
	COMPONENT_DEPLOY   ServiceComponent = "DEPLOY"
	COMPONENT_VERIFY   ServiceComponent = "VERIFY"
	COMPONENT_ROLLBACK ServiceComponent = "ROLLBACK"
	COMPONENT_TEARDOWN ServiceComponent = "TEARDOWN"
	COMPONENT_TOOLING  ServiceComponent = "TOOLING"
)

const (
	EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	EnvResourceGroup  = "RESOURCEGROUP"
	EnvLocation       = "LOCATION"
	EnvVMAdminUser    = "VM_ADMIN_USERNAME"
)

// Core collects the basic configuration every entrypoint needs: subscription
// and resource group scope, a token credential factory, and a component-tagged
// logger.
type Core interface {
	IsLocalDevelopmentMode() bool

	SubscriptionID() string
	ResourceGroup() string
	Location() string

	NewTokenCredential() (azcore.TokenCredential, error)

	GetEnv(string) string
	ValidateVars(...string) error

	Component() string
	Logger() *logrus.Entry
}

type core struct {
	cfg *viper.Viper

	isLocalDevelopmentMode bool

	component    ServiceComponent
	componentLog *logrus.Entry
}

func (c *core) IsLocalDevelopmentMode() bool {
	return c.isLocalDevelopmentMode
}

func (c *core) SubscriptionID() string {
	return c.cfg.GetString(EnvSubscriptionID)
}

func (c *core) ResourceGroup() string {
	return c.cfg.GetString(EnvResourceGroup)
}

func (c *core) Location() string {
	return c.cfg.GetString(EnvLocation)
}

func (c *core) NewTokenCredential() (azcore.TokenCredential, error) {
	if c.isLocalDevelopmentMode {
		return azidentity.NewAzureCLICredential(nil)
	}

	return azidentity.NewDefaultAzureCredential(nil)
}

func (c *core) GetEnv(name string) string {
	return c.cfg.GetString(name)
}

func (c *core) ValidateVars(vars ...string) error {
	return ValidateVars(c.cfg, vars...)
}

func (c *core) Component() string {
	return string(c.component)
}

func (c *core) Logger() *logrus.Entry {
	return c.componentLog
}

func NewCore(ctx context.Context, log *logrus.Entry, component ServiceComponent, cfg *viper.Viper) (Core, error) {
	isLocalDevelopmentMode := IsLocalDevelopmentModeFromConfig(cfg)
	componentLog := log.WithField("component", strings.ReplaceAll(strings.ToLower(string(component)), "_", "-"))
	if isLocalDevelopmentMode {
		log.Info("running in local development mode")
	}

	err := ValidateVars(cfg, EnvSubscriptionID, EnvResourceGroup, EnvLocation)
	if err != nil {
		return nil, err
	}

	return &core{
		cfg: cfg,

		isLocalDevelopmentMode: isLocalDevelopmentMode,
		component:              component,
		componentLog:           componentLog,
	}, nil
}
