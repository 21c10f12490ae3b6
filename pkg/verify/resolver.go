package verify

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Answer is the distilled outcome of one resolution probe.
type Answer struct {
	Authoritative bool
	Rcode         int
	Addresses     []string
}

// Resolver issues a single A query against a specific server. It exists as an
// interface so the gate can be tested against an in-process DNS server or a
// stub.
type Resolver interface {
	Query(ctx context.Context, server, name string) (*Answer, error)
}

type dnsResolver struct {
	client *dns.Client
	port   string
}

// NewResolver returns a Resolver probing port 53 over UDP, falling back to
// TCP on truncation.
func NewResolver() Resolver {
	return &dnsResolver{
		client: &dns.Client{Timeout: 5 * time.Second},
		port:   "53",
	}
}

func (r *dnsResolver) Query(ctx context.Context, server, name string) (*Answer, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)
	m.RecursionDesired = true

	addr := net.JoinHostPort(server, r.port)

	in, _, err := r.client.ExchangeContext(ctx, m, addr)
	if err != nil {
		return nil, err
	}

	if in.Truncated {
		tcpClient := &dns.Client{Net: "tcp", Timeout: r.client.Timeout}
		in, _, err = tcpClient.ExchangeContext(ctx, m, addr)
		if err != nil {
			return nil, err
		}
	}

	answer := &Answer{
		Authoritative: in.Authoritative,
		Rcode:         in.Rcode,
	}

	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			answer.Addresses = append(answer.Addresses, a.A.String())
		}
	}

	return answer, nil
}
