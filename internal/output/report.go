package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
)

const (
	portWidth    = 9
	stateWidth   = 14
	serviceWidth = 12
	maxDetail    = 100
	detailKeep   = 97
)

// ScanReport prints one "Scan report for …" block for a (host, address)
// pair, matching the column layout and Not-shown summaries of spec.md §6.
func ScanReport(w io.Writer, host, addr string, results []model.ScanResult, reverse ReverseMap, mode model.Mode, openOnly bool) {
	header := "Scan report for " + host
	if host != addr {
		header += " (" + addr + ")"
	} else if name := reverse.ReverseFor(addr); name != "" {
		header += " (" + name + ")"
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "Host is up.")

	sorted := append([]model.ScanResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Port < sorted[j].Port })

	var open, closed, filtered, errs int
	for _, r := range sorted {
		switch r.State {
		case model.StateOpen:
			open++
		case model.StateClosed:
			closed++
		case model.StateFilteredTime, model.StateOpenOrFiltered:
			filtered++
		default:
			errs++
		}
	}

	protoWord := "tcp"
	if mode == model.ModeUDP {
		protoWord = "udp"
	}

	if !openOnly {
		if closed > 0 {
			fmt.Fprintf(w, "Not shown: %d closed %s ports (conn-refused)\n", closed, protoWord)
		}
		if filtered > 0 {
			fmt.Fprintf(w, "Not shown: %d filtered %s ports (no-response)\n", filtered, protoWord)
		}
		if errs > 0 {
			fmt.Fprintf(w, "Not shown: %d error %s ports (io-error)\n", errs, protoWord)
		}
	}

	// Closed, filtered, and error ports are only counted in the Not-shown
	// summaries above; the table lists open ports alone.
	display := make([]model.ScanResult, 0, len(sorted))
	for _, r := range sorted {
		if r.State == model.StateOpen {
			display = append(display, r)
		}
	}

	if len(display) == 0 {
		if !openOnly && len(sorted) > 0 {
			label := "filtered"
			if closed == len(sorted) {
				label = "closed"
			}
			fmt.Fprintf(w, "All %d scanned %s ports on %s are %s.\n", len(sorted), protoWord, addr, label)
		}
		fmt.Fprintln(w)
		return
	}

	showDetail := mode == model.ModeTCPBanner

	header2 := fmt.Sprintf("%-*s%-*s%-*s", portWidth, "PORT", stateWidth, "STATE", serviceWidth, "SERVICE")
	if showDetail {
		header2 += "DETAIL"
	}
	fmt.Fprintln(w, header2)

	for _, r := range display {
		portLabel := fmt.Sprintf("%d/%s", r.Port, protoWord)
		line := fmt.Sprintf("%-*s%-*s%-*s", portWidth, portLabel, stateWidth, string(r.State), serviceWidth, ServiceName(r.Port, mode))
		if showDetail {
			line += clipDetail(r.Detail)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

func clipDetail(detail string) string {
	replacer := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")
	detail = replacer.Replace(detail)
	if len(detail) > maxDetail {
		detail = detail[:detailKeep] + "..."
	}
	return detail
}
