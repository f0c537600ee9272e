package output

import "github.com/richyo-codes/pulse-scan-cpp/internal/model"

var tcpServiceNames = map[int]string{
	20: "ftp-data", 21: "ftp", 22: "ssh", 23: "telnet", 25: "smtp",
	53: "domain", 80: "http", 81: "http-alt", 88: "kerberos", 110: "pop3",
	111: "rpcbind", 135: "msrpc", 139: "netbios-ssn", 143: "imap", 389: "ldap",
	443: "https", 445: "microsoft-ds", 465: "smtps", 587: "submission", 631: "ipp",
	873: "rsync", 993: "imaps", 995: "pop3s", 1433: "ms-sql", 2049: "nfs",
	3306: "mysql", 3389: "ms-wbt-server", 5432: "postgresql", 5672: "amqp", 5900: "vnc",
	6379: "redis", 8080: "http-alt", 8443: "https-alt", 9092: "kafka", 9200: "elasticsearch",
	9300: "elasticsearch", 11211: "memcache", 27017: "mongodb",
}

var udpServiceNames = map[int]string{
	53: "domain", 67: "dhcp", 68: "dhcp", 69: "tftp", 123: "ntp",
	161: "snmp", 500: "isakmp", 1900: "ssdp", 5353: "mdns",
}

// ServiceName looks up the fixed service name for a port under the given
// mode, falling back to "unknown" for anything not in the table.
func ServiceName(port int, mode model.Mode) string {
	table := tcpServiceNames
	if mode == model.ModeUDP {
		table = udpServiceNames
	}
	if name, ok := table[port]; ok {
		return name
	}
	return "unknown"
}
