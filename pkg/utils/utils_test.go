package utils

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	u := New()

	cases := []struct {
		name    string
		phone   string
		want    string
		wantErr bool
	}{
		{name: "local_ten_digits", phone: "9876543210", want: "919876543210"},
		{name: "plus_country_code", phone: "+91 98765 43210", want: "919876543210"},
		{name: "dashes", phone: "91-98765-43210", want: "919876543210"},
		{name: "letters_rejected", phone: "98765abcde", wantErr: true},
		{name: "too_short", phone: "12345", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := u.NormalizePhoneNumber(tc.phone)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhoneNumber(%q): %v", tc.phone, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizePhoneNumber(%q) = %q, want %q", tc.phone, got, tc.want)
			}
		})
	}
}

func TestMaskPhoneNumber(t *testing.T) {
	u := New()

	if got := u.MaskPhoneNumber("919876543210"); got != "********3210" {
		t.Fatalf("mask = %q", got)
	}
	if got := u.MaskPhoneNumber("123"); got != "****" {
		t.Fatalf("short mask = %q", got)
	}
}
