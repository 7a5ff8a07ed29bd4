package knowledge

import "strings"

// Product describes one catalog entry in the alias table.
type Product struct {
	// Key is the canonical product name, used as the section header in
	// normalized knowledge text.
	Key string
	// Aliases are matched by case-insensitive substring containment.
	Aliases []string
	// Family selects the repair-service list for the product.
	Family ProductFamily
}

// ProductFamily groups products that share a repair-service catalog.
type ProductFamily string

const (
	FamilyElectronics ProductFamily = "electronics"
	FamilyAppliance   ProductFamily = "appliance"
)

// Products is the canonical product alias table, in matching priority order.
var Products = []Product{
	{Key: "television", Aliases: []string{"television", "tv"}, Family: FamilyElectronics},
	{Key: "mobile", Aliases: []string{"mobile", "phone", "smartphone"}, Family: FamilyElectronics},
	{Key: "laptop", Aliases: []string{"laptop", "notebook"}, Family: FamilyElectronics},
	{Key: "tablet", Aliases: []string{"tablet", "tab"}, Family: FamilyElectronics},
	{Key: "refrigerator", Aliases: []string{"refrigerator", "fridge"}, Family: FamilyAppliance},
	{Key: "washing machine", Aliases: []string{"washing machine", "washer"}, Family: FamilyAppliance},
	{Key: "microwave", Aliases: []string{"microwave"}, Family: FamilyAppliance},
}

// RepairServices returns the repair-service catalog for a product family.
func RepairServices(family ProductFamily) []string {
	switch family {
	case FamilyAppliance:
		return []string{"Compressor repair", "Motor replacement", "Thermostat repair", "Door seal replacement"}
	default:
		return []string{"Screen replacement", "Battery replacement", "Motherboard repair", "Software diagnostics"}
	}
}

// ServiceSentence is the canned warranty-service sentence attached to
// structured records.
const ServiceSentence = "Covers manufacturing defects with free repair at authorized service centers"

// MatchProduct returns the first product whose alias is contained in the
// lowercased text.
func MatchProduct(text string) (Product, bool) {
	lower := strings.ToLower(text)
	for _, p := range Products {
		for _, alias := range p.Aliases {
			if strings.Contains(lower, alias) {
				return p, true
			}
		}
	}
	return Product{}, false
}
