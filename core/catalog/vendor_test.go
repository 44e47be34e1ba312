package catalog

import "testing"

// TestClassifyVendorPrecedence proves AMD > Intel > ARM > Unknown holds
// for every combination of vendor substrings.
func TestClassifyVendorPrecedence(t *testing.T) {
	cases := []struct {
		input string
		want  Vendor
	}{
		{"AMD EPYC 7763", VendorAMD},
		{"Intel Xeon Platinum 8490H", VendorIntel},
		{"ARM Graviton3", VendorARM},
		{"Ampere Altra", VendorARM},
		{"something else entirely", VendorUnknown},
		{"", VendorUnknown},

		// Precedence with multiple vendor mentions
		{"amd and intel and arm", VendorAMD},
		{"Intel beats ARM here", VendorIntel},
		{"intel or ampere", VendorIntel},
		{"arm with ampere", VendorARM},

		// Case insensitivity
		{"AMD", VendorAMD},
		{"aMd EpYc", VendorAMD},
		{"INTEL XEON", VendorIntel},
		{"ArM", VendorARM},
		{"AMPERE", VendorARM},

		// Embedded substrings still match
		{"Dadsv5 series AMD-based VM", VendorAMD},
		{"Standard Dv5 Intel(R) platform", VendorIntel},
	}

	for _, tc := range cases {
		if got := ClassifyVendor(tc.input); got != tc.want {
			t.Errorf("ClassifyVendor(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

// TestClassifyVendorNonString proves the classifier is total over
// arbitrary input.
func TestClassifyVendorNonString(t *testing.T) {
	if got := ClassifyVendor(nil); got != VendorUnknown {
		t.Errorf("ClassifyVendor(nil) = %s, want %s", got, VendorUnknown)
	}
	if got := ClassifyVendor(42); got != VendorUnknown {
		t.Errorf("ClassifyVendor(42) = %s, want %s", got, VendorUnknown)
	}
	if got := ClassifyVendor([]string{"AMD EPYC"}); got != VendorAMD {
		t.Errorf("ClassifyVendor(slice) = %s, want %s", got, VendorAMD)
	}
}

func TestSeries(t *testing.T) {
	cases := []struct {
		sku  string
		want string
	}{
		{"D2s_v3", "D2"},
		{"P3", "P3"},
		{"B", "B"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Series(tc.sku); got != tc.want {
			t.Errorf("Series(%q) = %q, want %q", tc.sku, got, tc.want)
		}
	}
}
