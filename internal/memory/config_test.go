package memory

import (
	"runtime/debug"
	"testing"
)

func restoreMemoryLimit(t *testing.T) {
	t.Helper()
	prev := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })
}

func TestConfigureFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		ratio      string
		wantSource string
		wantLimit  int64
		wantRatio  float64
	}{
		{name: "unset", wantSource: SourceNone},
		{name: "invalid limit", limit: "lots", wantSource: SourceNone},
		{name: "negative limit", limit: "-5", wantSource: SourceNone},
		{name: "default ratio", limit: "1000000000", wantSource: SourceMemoryLimit, wantLimit: 850000000, wantRatio: 0.85},
		{name: "custom ratio", limit: "1073741824", ratio: "0.5", wantSource: SourceMemoryLimit, wantLimit: 536870912, wantRatio: 0.5},
		{name: "ratio out of range", limit: "1000000000", ratio: "1.5", wantSource: SourceMemoryLimit, wantLimit: 850000000, wantRatio: 0.85},
		{name: "unparsable ratio", limit: "1000000000", ratio: "half", wantSource: SourceMemoryLimit, wantLimit: 850000000, wantRatio: 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreMemoryLimit(t)
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", tt.limit)
			t.Setenv("MEMORY_RATIO", tt.ratio)

			got := ConfigureFromEnv()
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.GoMemLimit != tt.wantLimit {
				t.Errorf("GoMemLimit = %d, want %d", got.GoMemLimit, tt.wantLimit)
			}
			if got.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", got.Ratio, tt.wantRatio)
			}
			if got.Configured != (tt.wantLimit > 0) {
				t.Errorf("Configured = %v", got.Configured)
			}
			if tt.wantLimit > 0 {
				if runtimeLimit := debug.SetMemoryLimit(-1); runtimeLimit != tt.wantLimit {
					t.Errorf("runtime limit = %d, want %d", runtimeLimit, tt.wantLimit)
				}
			}
		})
	}
}

func TestConfigureFromEnvGoMemLimitWins(t *testing.T) {
	restoreMemoryLimit(t)
	t.Setenv("GOMEMLIMIT", "1GiB")
	t.Setenv("MEMORY_LIMIT", "1000000000")

	before := debug.SetMemoryLimit(-1)
	got := ConfigureFromEnv()

	if got.Source != SourceGoMemLimit {
		t.Errorf("Source = %q, want %q", got.Source, SourceGoMemLimit)
	}
	if after := debug.SetMemoryLimit(-1); after != before {
		t.Errorf("runtime limit changed from %d to %d", before, after)
	}
}
