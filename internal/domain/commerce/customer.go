package commerce

import (
	"strings"
	"time"

	"github.com/commerceqb/gateway/internal/domain/shared"
)

// Customer is a buyer whose record may be mirrored into QuickBooks.
// QuickBooksID holds the ListID the accounting side assigned; it is empty
// until the first successful customer export.
type Customer struct {
	shared.BaseAggregateRoot
	FirstName    string `gorm:"type:varchar(100);not null"`
	LastName     string `gorm:"type:varchar(100);not null"`
	CompanyName  string `gorm:"type:varchar(200)"`
	Email        string `gorm:"type:varchar(200);index"`
	Phone        string `gorm:"type:varchar(50)"`
	BillingAddr  Address `gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddr Address `gorm:"embedded;embeddedPrefix:shipping_"`
	QuickBooksID string `gorm:"type:varchar(50);index"`
}

// Address is a postal address value object
type Address struct {
	Line1      string `gorm:"type:varchar(200)"`
	Line2      string `gorm:"type:varchar(200)"`
	City       string `gorm:"type:varchar(100)"`
	Province   string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
	Country    string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer with the required name fields
func NewCustomer(firstName, lastName, email string) (*Customer, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer requires a first or last name")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             strings.ToLower(strings.TrimSpace(email)),
	}, nil
}

// FullName returns the display name used on QuickBooks records
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// IsExported reports whether the customer already carries a QuickBooks reference
func (c *Customer) IsExported() bool {
	return c.QuickBooksID != ""
}

// AttachQuickBooksID writes the ListID returned by the accounting side
func (c *Customer) AttachQuickBooksID(listID string) error {
	if listID == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "QuickBooks ListID cannot be empty")
	}
	c.QuickBooksID = listID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
