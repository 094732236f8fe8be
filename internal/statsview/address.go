package statsview

// DefaultAddress is where the stats server listens unless configured
const DefaultAddress = "localhost:12600"

const chartPath = "/debug/statsview"

// URL returns the chart page served for a server listening on addr
func URL(addr string) string {
	if addr == "" {
		addr = DefaultAddress
	}
	return "http://" + addr + chartPath
}
