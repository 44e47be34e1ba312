// Package benchmark provides the static CoreMark reference dataset
// joined alongside the fetched pricing collections.
package benchmark

import "vmcatalog/core/catalog"

// Entry is one CoreMark benchmark sample.
type Entry struct {
	// CPU is the processor model name
	CPU string `json:"cpu"`

	// SingleCoreScore is the single-core CoreMark result
	SingleCoreScore int `json:"single_core_score"`

	// MultiCoreScore is the multi-core CoreMark result
	MultiCoreScore int `json:"multi_core_score"`

	// Cores is the physical core count
	Cores int `json:"cores"`

	// CPUVendor is the classified processor manufacturer
	CPUVendor catalog.Vendor `json:"cpu_vendor"`
}

// Samples returns the fixed benchmark table with vendors classified.
func Samples() []Entry {
	entries := []Entry{
		{CPU: "Intel Xeon Platinum 8490H", SingleCoreScore: 1980, MultiCoreScore: 31400, Cores: 60},
		{CPU: "Intel Xeon Gold 6338", SingleCoreScore: 1720, MultiCoreScore: 28400, Cores: 32},
		{CPU: "AMD EPYC 7763", SingleCoreScore: 1880, MultiCoreScore: 40200, Cores: 64},
		{CPU: "AMD EPYC 7B13", SingleCoreScore: 1820, MultiCoreScore: 39200, Cores: 64},
		{CPU: "ARM Graviton3", SingleCoreScore: 1850, MultiCoreScore: 18500, Cores: 64},
	}
	for i := range entries {
		entries[i].CPUVendor = catalog.ClassifyVendor(entries[i].CPU)
	}
	return entries
}
