package export

import (
	"strconv"

	"vmcatalog/core/benchmark"
	"vmcatalog/core/catalog"
)

// Collection is a uniform named tabular structure, one per source,
// handed to the exporter.
type Collection struct {
	// Name becomes the sheet name (or CSV file stem)
	Name string

	// Header is the column row
	Header []string

	// Rows are the data rows, aligned with Header
	Rows [][]string
}

// Empty reports whether the collection has no data rows.
func (c Collection) Empty() bool {
	return len(c.Rows) == 0
}

// PricingCollection converts priced records to a tabular collection.
func PricingCollection(name string, records []catalog.PricedRecord) Collection {
	col := Collection{
		Name: name,
		Header: []string{
			"VM Name", "Product Name", "Location", "Unit Price (USD)", "Currency",
			"Meter Region", "CPU Vendor", "Series", "Service Family", "Type", "Arm SKU",
		},
	}
	for _, rec := range records {
		price := ""
		if rec.UnitPrice != nil {
			price = rec.UnitPrice.String()
		}
		col.Rows = append(col.Rows, []string{
			rec.SKU, rec.ProductName, rec.Location, price, rec.Currency,
			rec.MeterRegion, string(rec.CPUVendor), rec.Series,
			rec.ServiceFamily, rec.Type, rec.RawSKU,
		})
	}
	return col
}

// InstanceCollection converts instance records to a tabular collection.
func InstanceCollection(name string, records []catalog.InstanceRecord) Collection {
	col := Collection{
		Name: name,
		Header: []string{
			"Instance Type", "Name", "Family", "vCPU", "Memory (GiB)",
			"Processor", "CPU Vendor",
		},
	}
	for _, rec := range records {
		col.Rows = append(col.Rows, []string{
			rec.InstanceType, rec.Name, rec.Family,
			formatFloat(rec.VCPUs), formatFloat(rec.MemoryGiB),
			rec.Processor, string(rec.CPUVendor),
		})
	}
	return col
}

// BenchmarkCollection converts benchmark entries to a tabular collection.
func BenchmarkCollection(name string, entries []benchmark.Entry) Collection {
	col := Collection{
		Name: name,
		Header: []string{
			"CPU", "Single-Core Score", "Multi-Core Score", "Cores", "CPU Vendor",
		},
	}
	for _, entry := range entries {
		col.Rows = append(col.Rows, []string{
			entry.CPU,
			strconv.Itoa(entry.SingleCoreScore),
			strconv.Itoa(entry.MultiCoreScore),
			strconv.Itoa(entry.Cores),
			string(entry.CPUVendor),
		})
	}
	return col
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
