// Package catalog holds the fixed set of medications the sweep can
// query. Product identifiers are the retailer's external ids and are
// not expected to change.
package catalog

import (
	"fmt"
)

// Medication is one selectable dosage variant.
type Medication struct {
	Name      string
	ProductID string
}

// Medications is the fixed selection list, in prompt order.
var Medications = []Medication{
	{Name: "Lisdexamfetamine 20mg capsules", ProductID: "42013311000001109"},
	{Name: "Lisdexamfetamine 30mg capsules", ProductID: "42013411000001102"},
	{Name: "Lisdexamfetamine 40mg capsules", ProductID: "42013511000001103"},
	{Name: "Lisdexamfetamine 50mg capsules", ProductID: "42013611000001104"},
	{Name: "Lisdexamfetamine 60mg capsules", ProductID: "42013711000001108"},
	{Name: "Lisdexamfetamine 70mg capsules", ProductID: "42013811000001100"},
}

// ByProductID returns the medication with the given product id.
func ByProductID(productID string) (Medication, error) {
	for _, m := range Medications {
		if m.ProductID == productID {
			return m, nil
		}
	}
	return Medication{}, fmt.Errorf("unknown product id: %s", productID)
}

// Names returns the display names in selection order.
func Names() []string {
	names := make([]string, len(Medications))
	for i, m := range Medications {
		names[i] = m.Name
	}
	return names
}
