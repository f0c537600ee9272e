package resolver

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"
)

var errInvalidRange = fmt.Errorf("invalid IPv4 range")

// expandRangeV4 expands an IPv4 dash range. Two forms are accepted:
//
//	A.B.C.D-E.F.G.H  (full right-hand address)
//	A.B.C.D-N        (N replaces the last octet of the left-hand address)
//
// The result is inclusive and ascending regardless of input order.
func expandRangeV4(spec string) ([]net.IP, error) {
	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return nil, errInvalidRange
	}

	left := spec[:dash]
	right := spec[dash+1:]

	startIP := net.ParseIP(left).To4()
	if startIP == nil {
		return nil, errInvalidRange
	}

	var endIP net.IP
	if n, err := strconv.Atoi(right); err == nil {
		if n < 0 || n > 255 {
			return nil, errInvalidRange
		}
		endIP = make(net.IP, 4)
		copy(endIP, startIP)
		endIP[3] = byte(n)
	} else {
		endIP = net.ParseIP(right).To4()
		if endIP == nil {
			return nil, errInvalidRange
		}
	}

	start := ipToUint32(startIP)
	end := ipToUint32(endIP)
	if start > end {
		start, end = end, start
	}

	ips := make([]net.IP, 0, int(end-start)+1)
	for v := start; ; v++ {
		ips = append(ips, uint32ToIP(v))
		if v == end {
			break
		}
	}

	return ips, nil
}

func ipToUint32(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}

func uint32ToIP(v uint32) net.IP {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, v)
	return ip
}
