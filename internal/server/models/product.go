package models

// ProductType classifies a product.
type ProductType string

const (
	ProductHealthCare ProductType = "health_care"
	ProductBanking    ProductType = "banking"
	ProductOthers     ProductType = "others"
)

// Valid reports whether t is one of the known product types.
func (t ProductType) Valid() bool {
	switch t {
	case ProductHealthCare, ProductBanking, ProductOthers:
		return true
	}
	return false
}

// Product is something tickets can be filed against.
type Product struct {
	Entity
	SoftDelete
	Name       string
	Type       ProductType
	OwnerEmail string
}
