// Package resolver turns a host specification — a DNS name, a bare IP, an
// IPv4 CIDR block, or an IPv4 dash range — into a model.ResolvedTarget.
package resolver

import (
	"context"
	"net"
	"strings"

	"github.com/miekg/dns"

	"github.com/richyo-codes/pulse-scan-cpp/internal/logging"
	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
)

// Resolver resolves host specifications to addresses. Production code
// should use NewResolver; tests substitute a fake to avoid real DNS.
//
//go:generate mockgen -destination=mock_resolver.go -package=resolver github.com/richyo-codes/pulse-scan-cpp/internal/resolver Resolver
type Resolver interface {
	Resolve(ctx context.Context, host string, opts *model.ScanOptions) (model.ResolvedTarget, error)
}

type dnsResolver struct {
	log *logging.Logger
	// client performs forward lookups; overridable in tests.
	client *dns.Client
	// servers are tried in order until one answers; with none, no query
	// is sent and the lookup finds no addresses.
	servers []string
}

// NewResolver builds a Resolver that queries the nameservers listed in
// /etc/resolv.conf, or 127.0.0.1:53 when that file cannot be read or
// lists none.
func NewResolver(log *logging.Logger) Resolver {
	servers := systemServers()
	return &dnsResolver{
		log:     log,
		client:  &dns.Client{},
		servers: servers,
	}
}

func systemServers() []string {
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || cfg == nil || len(cfg.Servers) == 0 {
		return []string{"127.0.0.1:53"}
	}
	addrs := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		addrs = append(addrs, net.JoinHostPort(s, cfg.Port))
	}
	return addrs
}

// Resolve applies the precedence rules from spec.md §4.1: CIDR, then dash
// range, then a bare IP literal, then DNS.
func (r *dnsResolver) Resolve(ctx context.Context, host string, opts *model.ScanOptions) (model.ResolvedTarget, error) {
	if strings.Contains(host, "/") {
		if ips, err := expandCIDRv4(host); err == nil {
			return filterRangeResult(host, ips, opts), nil
		}
	}

	if strings.Contains(host, "-") {
		if ips, err := expandRangeV4(host); err == nil {
			return filterRangeResult(host, ips, opts), nil
		}
	}

	if ip := net.ParseIP(host); ip != nil {
		return filterLiteralIP(host, ip, opts), nil
	}

	return r.resolveDNS(ctx, host, opts)
}

// filterLiteralIP handles a bare IP-address target directly, the way
// asio::ip::tcp::resolver::resolve short-circuits a literal through
// getaddrinfo instead of a network round trip — a DNS query for an
// IP-shaped QNAME would never resolve back to itself. The same
// ipv4_only/ipv6_only family filter as a DNS result applies.
func filterLiteralIP(host string, ip net.IP, opts *model.ScanOptions) model.ResolvedTarget {
	isV4 := ip.To4() != nil
	if opts.IPv4Only && !isV4 {
		return model.ResolvedTarget{Host: host}
	}
	if opts.IPv6Only && isV4 {
		return model.ResolvedTarget{Host: host}
	}
	return model.ResolvedTarget{Host: host, Addrs: []string{ip.String()}}
}

// filterRangeResult applies the ipv6_only special case from §4.1: ranges
// are v4-only by design, so an ipv6_only sweep sees nothing for them.
func filterRangeResult(host string, ips []net.IP, opts *model.ScanOptions) model.ResolvedTarget {
	if opts.IPv6Only {
		return model.ResolvedTarget{Host: host, Addrs: nil, UsedRange: true}
	}

	addrs := make([]string, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, ip.String())
	}
	return model.ResolvedTarget{Host: host, Addrs: addrs, UsedRange: true}
}

func (r *dnsResolver) resolveDNS(ctx context.Context, host string, opts *model.ScanOptions) (model.ResolvedTarget, error) {
	var addrs []string

	if !opts.IPv6Only {
		if a, err := r.lookup(ctx, host, dns.TypeA); err == nil {
			addrs = append(addrs, a...)
		}
	}
	if !opts.IPv4Only {
		if aaaa, err := r.lookup(ctx, host, dns.TypeAAAA); err == nil {
			addrs = append(addrs, aaaa...)
		}
	}

	r.log.DNS(host, addrs, nil)

	if len(addrs) == 0 {
		r.log.Error("resolve "+host, errNoResults)
		return model.ResolvedTarget{Host: host}, errNoResults
	}

	return model.ResolvedTarget{Host: host, Addrs: addrs}, nil
}

var errNoResults = &resolveError{"no addresses found"}

type resolveError struct{ msg string }

func (e *resolveError) Error() string { return e.msg }

func (r *dnsResolver) lookup(ctx context.Context, host string, qtype uint16) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)
	m.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		resp, _, err := r.client.ExchangeContext(ctx, m, server)
		if err != nil {
			lastErr = err
			continue
		}
		return recordsToAddrs(resp, qtype), nil
	}
	return nil, lastErr
}

func recordsToAddrs(resp *dns.Msg, qtype uint16) []string {
	var out []string
	for _, rr := range resp.Answer {
		switch qtype {
		case dns.TypeA:
			if a, ok := rr.(*dns.A); ok {
				out = append(out, a.A.String())
			}
		case dns.TypeAAAA:
			if aaaa, ok := rr.(*dns.AAAA); ok {
				out = append(out, aaaa.AAAA.String())
			}
		}
	}
	return out
}
