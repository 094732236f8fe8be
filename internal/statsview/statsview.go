//go:build statsview

package statsview

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// sampleInterval is the chart refresh period in milliseconds
const sampleInterval = 1000

// Server is a running stats server
type Server struct {
	mgr *statsview.ViewManager
}

// Launch starts the stats server on addr in the background and writes its
// URL to output. A listen failure is written to output when it happens.
func Launch(addr string, output io.Writer) *Server {
	if addr == "" {
		addr = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(addr), viewer.WithInterval(sampleInterval))

	s := &Server{mgr: statsview.New()}
	go func() {
		if err := s.mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(output, "stats server on %s stopped: %v\n", addr, err)
		}
	}()

	fmt.Fprintf(output, "stats server available at %s\n", URL(addr))
	return s
}

// Close shuts the server down
func (s *Server) Close() {
	s.mgr.Stop()
}

// Available reports whether this build carries the stats server
func Available() bool {
	return true
}
