// Package catalog provides the normalized record shapes produced by the
// acquisition pipeline. Records are created once per fetched item and are
// never mutated afterwards.
package catalog

import "github.com/shopspring/decimal"

// PricedRecord is a normalized pricing row from the paginated retail source.
type PricedRecord struct {
	// SKU is the stock-keeping-unit identifier for the configuration
	SKU string `json:"sku"`

	// ProductName is the free-text product description
	ProductName string `json:"product_name"`

	// Location is the source region the price applies to
	Location string `json:"location"`

	// MeterRegion is the billing meter region
	MeterRegion string `json:"meter_region"`

	// UnitPrice is the price per billing unit; nil when the source omits it
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`

	// Currency is the ISO currency code; empty when the source omits it
	Currency string `json:"currency,omitempty"`

	// CPUVendor is the classified processor manufacturer
	CPUVendor Vendor `json:"cpu_vendor"`

	// Series is the SKU family prefix (first two characters of the SKU)
	Series string `json:"series"`

	// ServiceFamily is the source's service family grouping
	ServiceFamily string `json:"service_family"`

	// Type is the price type (e.g. Consumption, Reservation)
	Type string `json:"type"`

	// RawSKU preserves the identifier exactly as the source sent it
	RawSKU string `json:"raw_sku"`
}

// InstanceRecord is a normalized capability row from the fallback
// instance catalog source.
type InstanceRecord struct {
	// InstanceType is the purchasable instance identifier
	InstanceType string `json:"instance_type"`

	// Name is the human-readable instance name
	Name string `json:"name"`

	// Family is the instance family grouping
	Family string `json:"family"`

	// VCPUs is the virtual CPU count; zero when the source omits it
	VCPUs float64 `json:"vcpus"`

	// MemoryGiB is the memory size; zero when the source omits it
	MemoryGiB float64 `json:"memory_gib"`

	// Processor is the free-text processor description
	Processor string `json:"processor"`

	// CPUVendor is the classified processor manufacturer
	CPUVendor Vendor `json:"cpu_vendor"`
}

// Series derives the record series from a SKU: the first two characters,
// or the whole identifier if shorter.
func Series(sku string) string {
	r := []rune(sku)
	if len(r) > 2 {
		return string(r[:2])
	}
	return sku
}
