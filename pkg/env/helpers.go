package env

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// NewConfig returns a viper instance bound to the process environment.
func NewConfig() *viper.Viper {
	cfg := viper.New()
	cfg.AutomaticEnv()

	return cfg
}

// IsLocalDevelopmentModeFromConfig returns whether CUTOVER_MODE requests local
// development behaviour (az CLI credentials instead of MSI).
func IsLocalDevelopmentModeFromConfig(cfg *viper.Viper) bool {
	return strings.EqualFold(cfg.GetString("CUTOVER_MODE"), "development")
}

// ValidateVars iterates over all the elements of vars and returns an error
// containing all the missing environment variables, if any.
func ValidateVars(cfg *viper.Viper, vars ...string) error {
	var errs *multierror.Error

	for _, v := range vars {
		if cfg.GetString(v) == "" {
			errs = multierror.Append(errs, fmt.Errorf("environment variable %q unset", v))
		}
	}

	return errs.ErrorOrNil()
}
