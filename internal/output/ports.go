package output

// DevPorts is the default port list scanned when neither -p/--ports nor
// --top-ports is given.
var DevPorts = []int{
	22, 80, 443, 3000, 3001, 3002, 4000, 4200,
	5000, 5001, 5173, 5432, 5672, 6379, 8000, 8080,
	8081, 8082, 8443, 9000, 9090, 9092, 9200, 9300,
	11211, 15672, 2181, 27017, 3306, 6006, 9222, 9229,
}

// popularPorts backs --top-ports, in ascending port order; TopPorts takes
// a prefix of it, so the order decides which ports a given N selects.
var popularPorts = []int{
	20, 21, 22, 23, 25, 53, 80, 81, 88, 110,
	111, 113, 119, 135, 139, 143, 161, 389, 443, 445,
	465, 512, 513, 514, 515, 543, 544, 548, 554, 587,
	631, 636, 873, 902, 993, 995, 1025, 1080, 1433, 1723,
	2049, 2082, 2083, 3306, 3389, 5432, 5900, 6379, 8080, 8443,
}

// TopPortsLimit is the size of the built-in popular-port list; --top-ports
// must satisfy 1 <= N <= TopPortsLimit.
func TopPortsLimit() int {
	return len(popularPorts)
}

// TopPorts returns the first count entries of the popular-port list.
func TopPorts(count int) []int {
	if count <= 0 {
		return nil
	}
	if count > len(popularPorts) {
		count = len(popularPorts)
	}
	out := make([]int, count)
	copy(out, popularPorts[:count])
	return out
}
