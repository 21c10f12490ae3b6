package env

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"testing"

	utilerror "github.com/Azure/dns-cutover-poc/test/util/error"
)

func TestValidateVars(t *testing.T) {
	for _, tt := range []struct {
		name    string
		env     map[string]string
		vars    []string
		wantErr string
	}{
		{
			name: "all vars set",
			env: map[string]string{
				"AZURE_SUBSCRIPTION_ID": "subid",
				"RESOURCEGROUP":         "rg",
			},
			vars: []string{"AZURE_SUBSCRIPTION_ID", "RESOURCEGROUP"},
		},
		{
			name: "one missing var",
			env: map[string]string{
				"AZURE_SUBSCRIPTION_ID": "subid",
				"RESOURCEGROUP":         "",
			},
			vars:    []string{"AZURE_SUBSCRIPTION_ID", "RESOURCEGROUP"},
			wantErr: "1 error occurred:\n\t* environment variable \"RESOURCEGROUP\" unset\n\n",
		},
		{
			name: "multiple missing vars",
			env: map[string]string{
				"AZURE_SUBSCRIPTION_ID": "",
				"RESOURCEGROUP":         "",
			},
			vars:    []string{"AZURE_SUBSCRIPTION_ID", "RESOURCEGROUP"},
			wantErr: "2 errors occurred:\n\t* environment variable \"AZURE_SUBSCRIPTION_ID\" unset\n\t* environment variable \"RESOURCEGROUP\" unset\n\n",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := ValidateVars(NewConfig(), tt.vars...)

			utilerror.AssertErrorMessage(t, err, tt.wantErr)
		})
	}
}

func TestIsLocalDevelopmentModeFromConfig(t *testing.T) {
	for _, tt := range []struct {
		mode string
		want bool
	}{
		{"development", true},
		{"Development", true},
		{"", false},
		{"production", false},
	} {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			t.Setenv("CUTOVER_MODE", tt.mode)

			if got := IsLocalDevelopmentModeFromConfig(NewConfig()); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
