package qbxml

import (
	"strings"
	"testing"
	"time"

	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder()
	require.NoError(t, err)
	return b
}

func TestBuilder_Build_Customer(t *testing.T) {
	b := newTestBuilder(t)

	doc, err := b.Build(export.JobTypeAddCustomer, Properties{
		"RequestID":      "1",
		"Name":           "Ada Lovelace",
		"FirstName":      "Ada",
		"LastName":       "Lovelace",
		"CompanyName":    "Analytical Engines & Co",
		"Phone":          "",
		"Email":          "ada@example.com",
		"BillLine1":      "12 St James Sq",
		"BillCity":       "London",
		"BillProvince":   "",
		"BillPostalCode": "SW1Y 4JH",
		"BillCountry":    "UK",
	})
	require.NoError(t, err)

	assert.Contains(t, doc, `<?qbxml version="13.0"?>`)
	assert.Contains(t, doc, `<CustomerAddRq requestID="1">`)
	assert.Contains(t, doc, "<Name>Ada Lovelace</Name>")
	assert.Contains(t, doc, "<CompanyName>Analytical Engines &amp; Co</CompanyName>")
	assert.NotContains(t, doc, "<Phone>")
	assert.Contains(t, doc, "<Country>UK</Country>")
}

func TestBuilder_Build_Invoice(t *testing.T) {
	b := newTestBuilder(t)

	doc, err := b.Build(export.JobTypeAddInvoice, Properties{
		"RequestID":      "2",
		"CustomerListID": "80000001-1622127438",
		"TxnDate":        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		"RefNumber":      "ORD-1001",
		"Lines": []Line{
			{ItemName: "SKU-100", Desc: "Widget", Quantity: 3, Rate: decimal.NewFromFloat(9.99)},
			{ItemName: "SKU-200", Desc: "Gadget", Quantity: 1, Rate: decimal.NewFromFloat(24.5)},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "<TxnDate>2025-03-14</TxnDate>")
	assert.Contains(t, doc, "<RefNumber>ORD-1001</RefNumber>")
	assert.Equal(t, 2, strings.Count(doc, "<InvoiceLineAdd>"))
	assert.Contains(t, doc, "<Rate>9.99</Rate>")
	assert.Contains(t, doc, "<Rate>24.50</Rate>")
}

func TestBuilder_Build_InvoiceMod(t *testing.T) {
	b := newTestBuilder(t)

	doc, err := b.Build(export.JobTypeModInvoice, Properties{
		"RequestID":    "3",
		"TxnID":        "5D3-1718801898",
		"EditSequence": "1718801898",
		"RefNumber":    "ORD-1001",
		"Lines": []Line{
			{ItemName: "SKU-100", Desc: "Widget", Quantity: 5, Rate: decimal.NewFromFloat(9.99)},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "<TxnID>5D3-1718801898</TxnID>")
	assert.Contains(t, doc, "<EditSequence>1718801898</EditSequence>")
	assert.Contains(t, doc, "<TxnLineID>-1</TxnLineID>")
}

func TestBuilder_Build_Payment(t *testing.T) {
	b := newTestBuilder(t)

	doc, err := b.Build(export.JobTypeAddPayment, Properties{
		"RequestID":      "4",
		"CustomerListID": "80000001-1622127438",
		"TxnDate":        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		"RefNumber":      "PAY-77",
		"TotalAmount":    decimal.NewFromFloat(49.5),
		"PaymentMethod":  "credit card",
		"AppliedToTxnID": "5D3-1718801898",
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "<TotalAmount>49.50</TotalAmount>")
	assert.Contains(t, doc, "<FullName>Credit Card</FullName>")
	assert.Contains(t, doc, "<AppliedToTxnAdd>")
}

func TestBuilder_Build_InventoryDefaults(t *testing.T) {
	b := newTestBuilder(t)

	doc, err := b.Build(export.JobTypeAddInventoryProduct, Properties{
		"RequestID":     "5",
		"Name":          "SKU-100",
		"SalesDesc":     "Widget",
		"SalesPrice":    decimal.NewFromFloat(9.99),
		"PurchaseCost":  decimal.NewFromFloat(4.25),
		"IncomeAccount": "",
		"COGSAccount":   "",
		"AssetAccount":  "",
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "<FullName>Sales</FullName>")
	assert.Contains(t, doc, "<FullName>Cost of Goods Sold</FullName>")
	assert.Contains(t, doc, "<FullName>Inventory Asset</FullName>")
}

func TestBuilder_Build_UnknownType(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Build(export.JobType("export_everything"), Properties{})
	assert.Error(t, err)
}
