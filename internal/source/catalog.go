package source

import "github.com/helpdesk-ai/support-engine/internal/knowledge"

// catalogPeriods holds the canonical warranty periods, in months, used when
// a live document yields no recognizable structured records.
var catalogPeriods = map[string]string{
	"television":      "12",
	"mobile":          "12",
	"laptop":          "24",
	"tablet":          "24",
	"refrigerator":    "36",
	"washing machine": "24",
	"microwave":       "12",
}

// CatalogRecords returns the hard-coded canonical catalog of product
// categories and their known warranty periods. It guarantees a non-empty
// corpus whenever a live fetch succeeds but parses empty.
func CatalogRecords() []ProductWarrantyRecord {
	records := make([]ProductWarrantyRecord, 0, len(knowledge.Products))
	for _, p := range knowledge.Products {
		period, ok := catalogPeriods[p.Key]
		if !ok {
			continue
		}
		records = append(records, ProductWarrantyRecord{
			Product:  p,
			Period:   period,
			Service:  knowledge.ServiceSentence,
			Services: knowledge.RepairServices(p.Family),
		})
	}
	return records
}
