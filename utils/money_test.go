package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"650", "650.00"},
		{"650.5", "650.50"},
		{"0", "0.00"},
		{"123.456", "123.46"},
		{"-10.1", "-10.10"},
	}
	for _, tc := range cases {
		d := decimal.RequireFromString(tc.in)
		if got := FormatAmount(d); got != tc.want {
			t.Fatalf("FormatAmount(%s): expected %s got %s", tc.in, tc.want, got)
		}
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("  246.00 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(decimal.RequireFromString("246")) {
		t.Fatalf("expected 246 got %s", d)
	}

	if _, err := ParseAmount("abc"); err == nil {
		t.Fatal("expected error for a non-numeric amount")
	}
}
