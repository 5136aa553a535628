package singleton

import (
	"testing"
	"time"
)

func TestParseRecord(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)

	cases := []struct {
		name string
		in   string
		want Record
		ok   bool
	}{
		{"full", "1234:1700000000000", Record{PID: 1234, Start: start}, true},
		{"full trailing newline", "1234:1700000000000\n", Record{PID: 1234, Start: start}, true},
		{"legacy pid only", "1234", Record{PID: 1234}, true},
		{"legacy with whitespace", "  1234 \n", Record{PID: 1234}, true},
		{"empty", "", Record{}, false},
		{"blank", "   \n", Record{}, false},
		{"garbage", "not a record", Record{}, false},
		{"bad pid", "abc:1700000000000", Record{}, false},
		{"zero pid", "0:1700000000000", Record{}, false},
		{"negative pid", "-5", Record{}, false},
		{"bad start", "1234:soon", Record{}, false},
		{"extra field", "1:2:3", Record{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRecord([]byte(tc.in))
			if tc.ok != (err == nil) {
				t.Fatalf("ParseRecord(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
			}
			if !tc.ok {
				return
			}
			if got.PID != tc.want.PID || !got.Start.Equal(tc.want.Start) {
				t.Fatalf("ParseRecord(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRecordString(t *testing.T) {
	full := Record{PID: 77, Start: time.UnixMilli(1_700_000_000_000)}
	if got := full.String(); got != "77:1700000000000" {
		t.Fatalf("String() = %q", got)
	}
	legacy := Record{PID: 77}
	if got := legacy.String(); got != "77" {
		t.Fatalf("legacy String() = %q", got)
	}

	back, err := ParseRecord([]byte(full.String()))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if back.PID != full.PID || !back.Start.Equal(full.Start) {
		t.Fatalf("round trip = %+v, want %+v", back, full)
	}
	if !full.HasStart() || legacy.HasStart() {
		t.Fatal("HasStart misreports")
	}
}
