package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"encoding/base64"
	"fmt"

	"github.com/Azure/dns-cutover-poc/pkg/cloud"
	"github.com/Azure/dns-cutover-poc/pkg/env"
	"github.com/Azure/dns-cutover-poc/pkg/sequencer"
	"github.com/Azure/dns-cutover-poc/pkg/topology"
)

// The simulated enterprise network: an on-prem zone, a hub and two spokes.
// On-prem and the hub forward each other's suffixes directly; spokes forward
// everything private through the hub, so the hub must be able to answer
// before any spoke cuts over, and the hub itself cannot cut over until
// on-prem and both spokes forward-resolve.
const (
	onpremSuffix = "onprem.pvt"
	hubSuffix    = "azure.pvt"
	spoke1Suffix = "spoke1.pvt"
	spoke2Suffix = "spoke2.pvt"

	onpremServer = "10.0.10.4"
	hubServer    = "10.1.10.4"
	spoke1Server = "10.2.10.4"
	spoke2Server = "10.3.10.4"

	// Azure storage privatelink carve-out: the broad public suffix and the
	// narrower privatelink suffix both forward to the hub, which hosts the
	// privatelink authority. Rule precedence must keep the narrow suffix
	// first or the CNAME chain breaks.
	storageSuffix            = "blob.core.windows.net"
	storagePrivatelinkSuffix = "privatelink.blob.core.windows.net"
)

var zoneNetworkPrefixes = map[string]string{
	onpremSuffix: "10.0.0.0/16",
	hubSuffix:    "10.1.0.0/16",
	spoke1Suffix: "10.2.0.0/16",
	spoke2Suffix: "10.3.0.0/16",
}

var zoneSubnetPrefixes = map[string]string{
	onpremSuffix: "10.0.10.0/24",
	hubSuffix:    "10.1.10.0/24",
	spoke1Suffix: "10.2.10.0/24",
	spoke2Suffix: "10.3.10.0/24",
}

// cloud-init for DNS server VMs: installs BIND and ships the renderer which
// turns the pushed declarative documents into named configuration. The
// renderer is what the coordinator invokes over run-command after every
// configuration push.
const serverCustomData = `#cloud-config
package_update: true
packages:
  - bind9
  - bind9-dnsutils
  - jq
write_files:
  - path: /usr/local/bin/dnscutover-render
    permissions: "0755"
    content: |
      #!/bin/bash
      set -e

      config_dir=/etc/dnscutover
      if [ "$1" = "--config-dir" ] && [ -n "$2" ]; then
          config_dir=$2
      fi

      conf=/etc/bind/named.conf.dnscutover
      serial=$(date +%s)
      : > "$conf"

      if [ -f "$config_dir/authority.json" ]; then
          server=$(jq -r .serverAddress "$config_dir/authority.json")
          for suffix in $(jq -r '.authoritativeSuffixes[]' "$config_dir/authority.json"); do
              zonefile=/var/cache/bind/db.$suffix
              printf '$TTL 300\n@ IN SOA dns.%s. hostmaster.%s. ( %s 3600 600 86400 300 )\n@ IN NS dns.%s.\ndns IN A %s\n' "$suffix" "$suffix" "$serial" "$suffix" "$server" > "$zonefile"
              printf 'zone "%s" { type master; file "%s"; };\n' "$suffix" "$zonefile" >> "$conf"
          done
      fi

      exempt=""
      if [ -f "$config_dir/forwarders.json" ]; then
          while IFS=$'\t' read -r suffix server; do
              printf 'zone "%s" { type forward; forward only; forwarders { %s; }; };\n' "$suffix" "$server" >> "$conf"
          done < <(jq -r '.forwarders[] | [.suffix, .server] | @tsv' "$config_dir/forwarders.json")
          exempt=$(jq -r '[.dnssecExemptions[] | "\"" + . + "\";"] | join(" ")' "$config_dir/forwarders.json")
      fi

      printf 'options {\n    directory "/var/cache/bind";\n    recursion yes;\n    allow-query { any; };\n    dnssec-validation auto;\n    validate-except { %s };\n    listen-on { any; };\n};\n' "$exempt" > /etc/bind/named.conf.options

      named-checkconf
runcmd:
  - |
    grep -q named.conf.dnscutover /etc/bind/named.conf.local ||
        echo 'include "/etc/bind/named.conf.dnscutover";' >> /etc/bind/named.conf.local
  - [touch, /etc/bind/named.conf.dnscutover]
  - [systemctl, enable, --now, named]
`

const clientCustomData = `#cloud-config
package_update: true
packages:
  - bind9-dnsutils
`

func buildTopology(_env env.Core) (*topology.Registry, *topology.RuleSet, map[string]*sequencer.ZoneDeployment, error) {
	registry := topology.NewRegistry()

	zones := []*topology.Zone{
		{Name: onpremSuffix, ServerAddress: onpremServer, Authoritative: true},
		{Name: hubSuffix, ServerAddress: hubServer, Authoritative: true},
		{Name: spoke1Suffix, ServerAddress: spoke1Server, Authoritative: true},
		{Name: spoke2Suffix, ServerAddress: spoke2Server, Authoritative: true},
	}

	for _, zone := range zones {
		zone.VNetID = fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Network/virtualNetworks/%s", _env.SubscriptionID(), _env.ResourceGroup(), zone.VNetName())

		err := registry.Register(zone)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	rules := topology.NewRuleSet(registry)

	forwardingRules := []*topology.ForwardingRule{
		// on-prem <-> hub, the deliberate bidirectional pair
		{FromZone: onpremSuffix, TargetSuffix: hubSuffix, TargetServer: hubServer},
		{FromZone: hubSuffix, TargetSuffix: onpremSuffix, TargetServer: onpremServer},

		// hub answers for the spokes
		{FromZone: hubSuffix, TargetSuffix: spoke1Suffix, TargetServer: spoke1Server},
		{FromZone: hubSuffix, TargetSuffix: spoke2Suffix, TargetServer: spoke2Server},

		// spokes send all private suffixes through the hub
		{FromZone: spoke1Suffix, TargetSuffix: hubSuffix, TargetServer: hubServer},
		{FromZone: spoke1Suffix, TargetSuffix: onpremSuffix, TargetServer: hubServer},
		{FromZone: spoke2Suffix, TargetSuffix: hubSuffix, TargetServer: hubServer},
		{FromZone: spoke2Suffix, TargetSuffix: onpremSuffix, TargetServer: hubServer},

		// storage privatelink: narrow before broad, both via the hub
		{FromZone: onpremSuffix, TargetSuffix: storagePrivatelinkSuffix, TargetServer: hubServer},
		{FromZone: onpremSuffix, TargetSuffix: storageSuffix, TargetServer: hubServer},
	}

	for _, rule := range forwardingRules {
		err := rules.AddRule(rule)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	deployments := map[string]*sequencer.ZoneDeployment{}

	peers := map[string][]string{
		onpremSuffix: {hubSuffix},
		hubSuffix:    {spoke1Suffix, spoke2Suffix},
	}

	adminUsername := _env.GetEnv(env.EnvVMAdminUser)
	if adminUsername == "" {
		adminUsername = "cutoveradmin"
	}
	sshPublicKey := _env.GetEnv("SSH_PUBLIC_KEY")

	for _, zone := range zones {
		serverAddress := zone.ServerAddress

		deployments[zone.Name] = &sequencer.ZoneDeployment{
			Network: cloud.NetworkSpec{
				Name:          zone.VNetName(),
				AddressPrefix: zoneNetworkPrefixes[zone.Name],
				Subnets: []cloud.SubnetSpec{
					{Name: "workload", AddressPrefix: zoneSubnetPrefixes[zone.Name]},
				},
			},
			ServerVM: cloud.VMSpec{
				Name:             zone.ServerVMName(),
				PrivateIPAddress: serverAddress,
				AdminUsername:    adminUsername,
				SSHPublicKey:     sshPublicKey,
				CustomData:       base64.StdEncoding.EncodeToString([]byte(serverCustomData)),
			},
			ClientVM: cloud.VMSpec{
				Name:             zone.ClientVMName(),
				PrivateIPAddress: clientAddress(serverAddress),
				AdminUsername:    adminUsername,
				SSHPublicKey:     sshPublicKey,
				CustomData:       base64.StdEncoding.EncodeToString([]byte(clientCustomData)),
			},
			Peers: peers[zone.Name],
		}
	}

	return registry, rules, deployments, nil
}

// clientAddress places the client VM next to the zone's server in the same
// subnet: .4 server, .5 client.
func clientAddress(serverAddress string) string {
	return serverAddress[:len(serverAddress)-1] + "5"
}
