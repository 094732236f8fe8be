//go:build !statsview

package statsview

import (
	"fmt"
	"io"
)

// Server stands in for the stats server in builds without it
type Server struct{}

// Launch reports that the binary was built without the stats server
func Launch(addr string, output io.Writer) *Server {
	fmt.Fprintf(output, "stats server for %s not available: rebuild with -tags statsview\n", URL(addr))
	return &Server{}
}

// Close does nothing
func (s *Server) Close() {}

// Available reports whether this build carries the stats server
func Available() bool {
	return false
}
