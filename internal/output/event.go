package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
)

// portEvent and icmpEvent mirror the structured-output field set from
// spec.md §6. encoding/json (not a hand-rolled escaper) renders them: no
// pack example wires a third-party JSON library for ad-hoc line records —
// see DESIGN.md's stdlib-only components.
type portEvent struct {
	Event      string `json:"event"`
	Change     bool   `json:"change"`
	Mode       string `json:"mode"`
	Host       string `json:"host"`
	Address    string `json:"address"`
	ReverseDNS string `json:"reverse_dns"`
	Port       int    `json:"port"`
	State      string `json:"state"`
	Detail     string `json:"detail"`
}

type icmpEvent struct {
	Event      string `json:"event"`
	Change     bool   `json:"change"`
	Mode       string `json:"mode"`
	Host       string `json:"host"`
	Address    string `json:"address"`
	ReverseDNS string `json:"reverse_dns"`
	Port       *int   `json:"port"`
	State      string `json:"state"`
	Detail     string `json:"detail"`
}

type unavailableEvent struct {
	Event   string `json:"event"`
	Change  bool   `json:"change"`
	Mode    string `json:"mode"`
	Host    string `json:"host,omitempty"`
	Address string `json:"address,omitempty"`
	Port    *int   `json:"port,omitempty"`
	Key     string `json:"key,omitempty"`
	State   string `json:"state"`
	Detail  string `json:"detail"`
}

// PortResult emits a single port-mode result as text or JSON.
func PortResult(w io.Writer, rec model.ScanRecord, reverse ReverseMap, isChange bool, mode model.Mode, format model.OutputFormat) {
	if format == model.OutputText {
		prefix := ""
		if isChange {
			prefix = "CHANGE "
		}
		fmt.Fprintf(w, "%s%s %s:%d -> %s (%s)\n", prefix, rec.Host,
			FormatAddressWithReverse(rec.Addr, reverse), rec.Result.Port, rec.Result.State, rec.Result.Detail)
		return
	}

	writeJSONLine(w, portEvent{
		Event:      "result",
		Change:     isChange,
		Mode:       mode.String(),
		Host:       rec.Host,
		Address:    rec.Addr,
		ReverseDNS: reverse.ReverseFor(rec.Addr),
		Port:       rec.Result.Port,
		State:      string(rec.Result.State),
		Detail:     rec.Result.Detail,
	})
}

// ICMPResult emits a single ICMP result as text or JSON.
func ICMPResult(w io.Writer, host, addr string, result model.IcmpResult, reverse ReverseMap, isChange bool, format model.OutputFormat) {
	if format == model.OutputText {
		prefix := ""
		if isChange {
			prefix = "CHANGE "
		}
		fmt.Fprintf(w, "%s%s %s -> %s (%s)\n", prefix, host, FormatAddressWithReverse(addr, reverse), result.State, result.Detail)
		return
	}

	writeJSONLine(w, icmpEvent{
		Event:      "result",
		Change:     isChange,
		Mode:       "icmp",
		Host:       host,
		Address:    addr,
		ReverseDNS: reverse.ReverseFor(addr),
		Port:       nil,
		State:      string(result.State),
		Detail:     result.Detail,
	})
}

// Unavailable emits a disappearance record for a fingerprint key that no
// longer resolves, parsing it into (host, address, port) when the key has
// the "host|addr:port" shape and falling back to the raw key otherwise.
func Unavailable(w io.Writer, key model.FingerprintKey, isChange bool, mode string, format model.OutputFormat) {
	if format == model.OutputText {
		prefix := ""
		if isChange {
			prefix = "CHANGE "
		}
		fmt.Fprintf(w, "%s%s -> unavailable (no longer resolved)\n", prefix, string(key))
		return
	}

	ev := unavailableEvent{
		Event:  "unavailable",
		Change: isChange,
		Mode:   mode,
		State:  "unavailable",
		Detail: "no longer resolved",
	}

	// ICMP keys are never parsed: an IPv6 address's own colons would
	// otherwise be mistaken for the addr:port separator.
	if host, addr, port, ok := parseKey(string(key)); ok && mode != "icmp" {
		ev.Host, ev.Address, ev.Port = host, addr, &port
	} else {
		ev.Key = string(key)
	}

	writeJSONLine(w, ev)
}

// parseKey splits a "host|addr:port" fingerprint key. It returns false if
// the key doesn't have that shape (e.g. an ICMP "host|addr" key with an
// IPv4 address); an ICMP key with an IPv6 address still contains a colon,
// which is why Unavailable does not call it for ICMP keys.
func parseKey(key string) (host, addr string, port int, ok bool) {
	pipe := strings.IndexByte(key, '|')
	if pipe < 0 {
		return "", "", 0, false
	}
	rest := key[pipe+1:]
	colon := strings.LastIndexByte(rest, ':')
	if colon < 0 {
		return "", "", 0, false
	}
	p, err := strconv.Atoi(rest[colon+1:])
	if err != nil {
		return "", "", 0, false
	}
	return key[:pipe], rest[:colon], p, true
}

func writeJSONLine(w io.Writer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	w.Write(b)
	fmt.Fprintln(w)
}
