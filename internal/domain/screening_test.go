package domain

import "testing"

func TestResolveNumberChain(t *testing.T) {
	cases := []struct {
		name    string
		details CallDetails
		want    string
	}{
		{"direct wins", CallDetails{DirectNumber: "+331", Handle: "+332", GatewayAddress: "+333", IntentAddress: "+334"}, "+331"},
		{"handle next", CallDetails{Handle: "+332", GatewayAddress: "+333", IntentAddress: "+334"}, "+332"},
		{"gateway next", CallDetails{GatewayAddress: "+333", IntentAddress: "+334"}, "+333"},
		{"intent last", CallDetails{IntentAddress: "+334"}, "+334"},
		{"all empty is hidden", CallDetails{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.details.ResolveNumber(); got != tc.want {
				t.Fatalf("ResolveNumber() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+33 6 12 34 56 78", "33612345678"},
		{"(555) 123-4567", "5551234567"},
		{"0612345678", "0612345678"},
		{"+", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
