package mapping

import (
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/models"
)

// ToModelProduct converts a domain Product to a model Product.
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:          d.ProductID,
		Name:               d.Name,
		OnHand:             d.OnHand,
		UnitCost:           d.UnitCost,
		UnitSellingPrice:   d.UnitSellingPrice,
		UnitWholesalePrice: d.UnitWholesalePrice,
		IsActive:           d.IsActive,
		Version:            d.Version,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product.
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:          m.ProductID,
		Name:               m.Name,
		OnHand:             m.OnHand,
		UnitCost:           m.UnitCost,
		UnitSellingPrice:   m.UnitSellingPrice,
		UnitWholesalePrice: m.UnitWholesalePrice,
		IsActive:           m.IsActive,
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
