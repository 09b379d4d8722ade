package netwait

import (
	"net"
	"testing"
)

func TestUsable(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"192.168.1.10", true},
		{"10.0.0.5", true},
		{"8.8.8.8", true},
		{"2001:db8::1", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"169.254.1.1", false},
		{"fe80::1", false},
		{"0.0.0.0", false},
	}

	for _, tt := range tests {
		ip := net.ParseIP(tt.addr)
		if got := usable(ip); got != tt.want {
			t.Errorf("usable(%s) = %v, want %v", tt.addr, got, tt.want)
		}
	}

	if usable(nil) {
		t.Error("usable(nil) = true, want false")
	}
}

func TestPreferIPv4(t *testing.T) {
	v4 := net.ParseIP("192.168.1.10")
	v6 := net.ParseIP("2001:db8::1")

	if got := preferIPv4([]net.IP{v6, v4}); !got.Equal(v4) {
		t.Errorf("preferIPv4 = %v, want %v", got, v4)
	}
	if got := preferIPv4([]net.IP{v6}); !got.Equal(v6) {
		t.Errorf("preferIPv4 v6-only = %v, want %v", got, v6)
	}
	if got := preferIPv4(nil); got != nil {
		t.Errorf("preferIPv4(nil) = %v, want nil", got)
	}
}
