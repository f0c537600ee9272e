// Package reversedns synchronously builds an address->PTR map, best-effort
// and empty on failure, per spec.md §4.1/§2 ("Reverse-DNS map builder").
package reversedns

import (
	"context"
	"net"

	"github.com/richyo-codes/pulse-scan-cpp/internal/output"
)

// Build looks up a PTR name for each address and returns a map containing
// only the addresses that resolved. Lookup failures are silently skipped —
// this is a best-effort enrichment, not a hard dependency of any probe.
func Build(ctx context.Context, addrs []string) output.ReverseMap {
	m := make(output.ReverseMap, len(addrs))
	resolver := net.DefaultResolver

	for _, addr := range addrs {
		names, err := resolver.LookupAddr(ctx, addr)
		if err != nil || len(names) == 0 {
			continue
		}
		m[addr] = trimTrailingDot(names[0])
	}

	return m
}

func trimTrailingDot(name string) string {
	if len(name) > 0 && name[len(name)-1] == '.' {
		return name[:len(name)-1]
	}
	return name
}
