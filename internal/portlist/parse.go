// Package portlist parses the -p/--ports flag's comma-separated list of
// integers and ranges, per spec.md §6.
package portlist

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse splits spec on commas; each token is either an integer or
// "start-end" (swapped if start > end). Empty tokens are skipped.
func Parse(spec string) ([]int, error) {
	var ports []int

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if dash := strings.IndexByte(token, '-'); dash >= 0 {
			start, err := strconv.Atoi(strings.TrimSpace(token[:dash]))
			if err != nil {
				return nil, fmt.Errorf("invalid port range %q: %w", token, err)
			}
			end, err := strconv.Atoi(strings.TrimSpace(token[dash+1:]))
			if err != nil {
				return nil, fmt.Errorf("invalid port range %q: %w", token, err)
			}
			if start > end {
				start, end = end, start
			}
			for p := start; p <= end; p++ {
				ports = append(ports, p)
			}
			continue
		}

		p, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", token, err)
		}
		ports = append(ports, p)
	}

	return ports, nil
}
