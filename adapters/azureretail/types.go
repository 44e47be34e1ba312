package azureretail

import (
	"github.com/shopspring/decimal"

	"vmcatalog/core/catalog"
)

// priceSheet is one page of the retail prices API. Absence of
// NextPageLink terminates pagination.
type priceSheet struct {
	BillingCurrency string      `json:"BillingCurrency"`
	Items           []priceItem `json:"Items"`
	NextPageLink    *string     `json:"NextPageLink"`
	Count           int         `json:"Count"`
}

// priceItem is one retail price row as the source sends it.
type priceItem struct {
	CurrencyCode  string           `json:"currencyCode"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	ArmRegionName string           `json:"armRegionName"`
	MeterRegion   string           `json:"meterRegion"`
	ProductName   string           `json:"productName"`
	ServiceFamily string           `json:"serviceFamily"`
	Type          string           `json:"type"`
	ArmSkuName    string           `json:"armSkuName"`
}

// toRecord projects a source item into the normalized record shape.
func (it priceItem) toRecord() catalog.PricedRecord {
	return catalog.PricedRecord{
		SKU:           it.ArmSkuName,
		ProductName:   it.ProductName,
		Location:      it.ArmRegionName,
		MeterRegion:   it.MeterRegion,
		UnitPrice:     it.UnitPrice,
		Currency:      it.CurrencyCode,
		CPUVendor:     catalog.ClassifyVendor(it.ProductName),
		Series:        catalog.Series(it.ArmSkuName),
		ServiceFamily: it.ServiceFamily,
		Type:          it.Type,
		RawSKU:        it.ArmSkuName,
	}
}
