package output

// ReverseMap maps a textual IP address to its PTR name, built by the
// reversedns package. A nil map is treated as empty (no enrichment).
type ReverseMap map[string]string

// ReverseFor returns the PTR name for addr, or "" if unknown.
func (m ReverseMap) ReverseFor(addr string) string {
	if m == nil {
		return ""
	}
	return m[addr]
}

// FormatAddressWithReverse appends " (name)" to addr when a reverse name
// is known, per spec.md's testable property #9.
func FormatAddressWithReverse(addr string, reverse ReverseMap) string {
	name := reverse.ReverseFor(addr)
	if name == "" {
		return addr
	}
	return addr + " (" + name + ")"
}
