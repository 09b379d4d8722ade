package naming

import (
	"fmt"
	"testing"
)

func TestNextNameInitial(t *testing.T) {
	tests := []struct {
		name        string
		defaultBase string
		want        string
	}{
		{"ConfiguredBase", "beacon", "beacon"},
		{"EmptyBase", "", "esp8266"},
		{"BaseWithDivider", "my-host", "my-host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextName("", "-", tt.defaultBase)
			if got != tt.want {
				t.Errorf("NextName(\"\", \"-\", %q) = %q, want %q", tt.defaultBase, got, tt.want)
			}
		})
	}
}

func TestNextNameConflict(t *testing.T) {
	tests := []struct {
		name    string
		current string
		divider string
		want    string
	}{
		{"Unsuffixed", "esp8266", "-", "esp8266-2"},
		{"Index2", "esp8266-2", "-", "esp8266-3"},
		{"Index9", "esp8266-9", "-", "esp8266-10"},
		{"Index10", "esp8266-10", "-", "esp8266-11"},
		{"Index99", "beacon-99", "-", "beacon-100"},
		{"DividerInBase", "my-custom-host", "-", "my-custom-host-2"},
		{"DividerInBaseWithIndex", "my-custom-host-2", "-", "my-custom-host-3"},
		{"NonNumericSuffix", "host-beta", "-", "host-beta-2"},
		{"ZeroSuffix", "host-0", "-", "host-0-2"},
		{"TrailingJunk", "host-2x", "-", "host-2x-2"},
		{"LeadingJunk", "host-x2", "-", "host-x2-2"},
		{"MultiCharDivider", "host_v3", "_v", "host_v4"},
		{"EmptyDividerDefaults", "host", "", "host-2"},
		{"DividerAtEnd", "host-", "-", "host--2"},
		{"OnlyDivider", "-", "-", "--2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextName(tt.current, tt.divider, "")
			if got != tt.want {
				t.Errorf("NextName(%q, %q, _) = %q, want %q", tt.current, tt.divider, got, tt.want)
			}
		})
	}
}

func TestNextNameRepeated(t *testing.T) {
	// k conflicts starting from an unsuffixed base yield base-(k+1).
	name := "esp8266"
	for k := 1; k <= 25; k++ {
		name = NextName(name, "-", "")
		want := fmt.Sprintf("esp8266-%d", k+1)
		if name != want {
			t.Fatalf("after %d conflicts: got %q, want %q", k, name, want)
		}
	}
}

func TestNextNameNeverEmpty(t *testing.T) {
	inputs := []string{"", "a", "-", "--", "a-1", "a-0"}
	for _, in := range inputs {
		if got := NextName(in, "-", ""); got == "" {
			t.Errorf("NextName(%q, \"-\", \"\") returned empty name", in)
		}
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in     string
		want   uint64
		wantOK bool
	}{
		{"1", 1, true},
		{"2", 2, true},
		{"10", 10, true},
		{"007", 7, true},
		{"", 0, false},
		{"0", 0, false},
		{"00", 0, false},
		{"x", 0, false},
		{"2x", 0, false},
		{"x2", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{" 1", 0, false},
		{"1 ", 0, false},
	}

	for _, tt := range tests {
		n, ok := parseIndex(tt.in)
		if ok != tt.wantOK || n != tt.want {
			t.Errorf("parseIndex(%q) = (%d, %v), want (%d, %v)", tt.in, n, ok, tt.want, tt.wantOK)
		}
	}
}
