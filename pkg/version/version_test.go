package version

import "testing"

func TestParseValid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.2", 1, 2},
		{"10.42", 10, 42},
		{"0.1", 0, 1},
	}

	for _, tt := range tests {
		v, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.input, err)
			continue
		}
		if v.Major != tt.major || v.Minor != tt.minor {
			t.Errorf("Parse(%q) = %d.%d, want %d.%d", tt.input, v.Major, v.Minor, tt.major, tt.minor)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{"", "1", "1.", ".1", "1.0.0", "a.b", "1.x", "-1.0"}
	for _, in := range inputs {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) error = nil, want error", in)
		}
	}
}

func TestString(t *testing.T) {
	v := FirmwareVersion{Major: 1, Minor: 2}
	if got := v.String(); got != "1.2" {
		t.Errorf("String() = %q, want %q", got, "1.2")
	}
}

func TestCompatible(t *testing.T) {
	a := FirmwareVersion{Major: 1, Minor: 0}
	b := FirmwareVersion{Major: 1, Minor: 9}
	c := FirmwareVersion{Major: 2, Minor: 0}

	if !a.Compatible(b) {
		t.Error("1.0 should be compatible with 1.9")
	}
	if a.Compatible(c) {
		t.Error("1.0 should not be compatible with 2.0")
	}
}

func TestCurrentParses(t *testing.T) {
	if _, err := Parse(Current); err != nil {
		t.Errorf("Current %q does not parse: %v", Current, err)
	}
}
