package commerce

import (
	"strings"
	"time"

	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductVariation is a sellable SKU. Variations with inventory tracking
// export as QuickBooks inventory items, the rest as non-inventory items.
type ProductVariation struct {
	shared.BaseAggregateRoot
	SKU             string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Title           string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Cost            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TracksInventory bool            `gorm:"not null;default:true"`
	QuickBooksID    string          `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (ProductVariation) TableName() string {
	return "product_variations"
}

// NewProductVariation creates a variation with the required SKU and title
func NewProductVariation(sku, title string, price decimal.Decimal) (*ProductVariation, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product variation requires a SKU")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product variation requires a title")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &ProductVariation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Title:             strings.TrimSpace(title),
		Price:             price,
		TracksInventory:   true,
	}, nil
}

// IsExported reports whether the variation already carries a QuickBooks reference
func (p *ProductVariation) IsExported() bool {
	return p.QuickBooksID != ""
}

// AttachQuickBooksID writes the ListID returned by the accounting side
func (p *ProductVariation) AttachQuickBooksID(listID string) error {
	if listID == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "QuickBooks ListID cannot be empty")
	}
	p.QuickBooksID = listID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
