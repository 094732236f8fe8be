package statsview

import "testing"

func TestURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"", "http://localhost:12600/debug/statsview"},
		{"0.0.0.0:8080", "http://0.0.0.0:8080/debug/statsview"},
	}
	for _, tt := range tests {
		if got := URL(tt.addr); got != tt.want {
			t.Errorf("URL(%q): expected %q, got %q", tt.addr, tt.want, got)
		}
	}
}
