package version

import (
	"bytes"
	"strings"
	"testing"
)

func withVersion(t *testing.T, version, commit string) {
	t.Helper()
	oldVersion, oldCommit := Version, GitCommit
	Version, GitCommit = version, commit
	t.Cleanup(func() {
		Version, GitCommit = oldVersion, oldCommit
	})
}

func TestGetReportsCore(t *testing.T) {
	withVersion(t, "v1.2.0", "0123456789abcdef")
	info := Get()

	if info.Version != "v1.2.0" || info.Commit != "0123456789abcdef" {
		t.Errorf("Expected ldflags values, got %+v", info)
	}
	if info.Opcodes != 151 || info.Mnemonics != 56 {
		t.Errorf("Expected 151 opcodes / 56 mnemonics, got %d / %d", info.Opcodes, info.Mnemonics)
	}
	if len(info.Mappers) != 1 || info.Mappers[0] != 1 {
		t.Errorf("Expected mapper list [1], got %v", info.Mappers)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"release", Info{Version: "v1.2.0", Mappers: []uint8{1}, Opcodes: 151}, "v1.2.0 mappers 1, 151 opcodes"},
		{"commit", Info{Version: "dev", Commit: "0123456789", Mappers: []uint8{1}, Opcodes: 151}, "dev (0123456) mappers 1, 151 opcodes"},
		{"dirty", Info{Version: "dev", Commit: "abc", Modified: true, Mappers: []uint8{1, 4}, Opcodes: 2}, "dev (abc+dirty) mappers 1, 4, 2 opcodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPrintBuildInfo(t *testing.T) {
	withVersion(t, "v1.2.0", "abc")
	var out bytes.Buffer
	PrintBuildInfo(&out, "gones")

	for _, want := range []string{"gones v1.2.0 (abc", "6502, 151 opcodes / 56 mnemonics", "Mappers: 1\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in:\n%s", want, out.String())
		}
	}
}
