package catalog

import (
	"fmt"
	"strings"
)

// Vendor is the processor manufacturer classification.
// The set is closed; source data never extends it.
type Vendor string

const (
	// VendorAMD is an AMD processor
	VendorAMD Vendor = "AMD"

	// VendorIntel is an Intel processor
	VendorIntel Vendor = "Intel"

	// VendorARM is an ARM-architecture processor (including Ampere)
	VendorARM Vendor = "ARM"

	// VendorUnknown is the fallback classification
	VendorUnknown Vendor = "Unknown"
)

// ClassifyVendor classifies free text into a Vendor by case-insensitive
// substring match in fixed precedence order: AMD, then Intel, then ARM.
// Non-string input is coerced to text; nil classifies as Unknown.
// The function is pure and total.
func ClassifyVendor(v interface{}) Vendor {
	var text string
	switch s := v.(type) {
	case nil:
		return VendorUnknown
	case string:
		text = s
	default:
		text = fmt.Sprint(v)
	}

	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "amd"):
		return VendorAMD
	case strings.Contains(text, "intel"):
		return VendorIntel
	case strings.Contains(text, "arm"), strings.Contains(text, "ampere"):
		return VendorARM
	default:
		return VendorUnknown
	}
}
