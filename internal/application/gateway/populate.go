package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/infrastructure/qbxml"
)

// Populator assembles the property bag a job's request template renders
// from, reading the business object the job references
type Populator struct {
	customers  commerce.CustomerRepository
	variations commerce.ProductVariationRepository
	orders     commerce.OrderRepository
	payments   commerce.PaymentRepository
}

// NewPopulator creates a new Populator
func NewPopulator(
	customers commerce.CustomerRepository,
	variations commerce.ProductVariationRepository,
	orders commerce.OrderRepository,
	payments commerce.PaymentRepository,
) *Populator {
	return &Populator{
		customers:  customers,
		variations: variations,
		orders:     orders,
		payments:   payments,
	}
}

// Populate fills the property bag for the job's type
func (p *Populator) Populate(ctx context.Context, job *export.Job) (qbxml.Properties, error) {
	switch job.Type {
	case export.JobTypeAddCustomer:
		return p.customerProps(ctx, job)
	case export.JobTypeAddInventoryProduct, export.JobTypeAddNonInventoryProduct:
		return p.productProps(ctx, job)
	case export.JobTypeAddInvoice, export.JobTypeModInvoice, export.JobTypeAddSalesReceipt:
		return p.orderProps(ctx, job)
	case export.JobTypeAddPayment:
		return p.paymentProps(ctx, job)
	default:
		return nil, fmt.Errorf("no property source for job type %s", job.Type)
	}
}

func (p *Populator) customerProps(ctx context.Context, job *export.Job) (qbxml.Properties, error) {
	customer, err := p.customers.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return nil, err
	}

	return qbxml.Properties{
		"RequestID":      job.ID.String(),
		"Name":           customer.FullName(),
		"FirstName":      customer.FirstName,
		"LastName":       customer.LastName,
		"CompanyName":    customer.CompanyName,
		"Phone":          customer.Phone,
		"Email":          customer.Email,
		"BillLine1":      customer.BillingAddr.Line1,
		"BillLine2":      customer.BillingAddr.Line2,
		"BillCity":       customer.BillingAddr.City,
		"BillProvince":   customer.BillingAddr.Province,
		"BillPostalCode": customer.BillingAddr.PostalCode,
		"BillCountry":    customer.BillingAddr.Country,
	}, nil
}

func (p *Populator) productProps(ctx context.Context, job *export.Job) (qbxml.Properties, error) {
	variation, err := p.variations.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return nil, err
	}

	return qbxml.Properties{
		"RequestID":     job.ID.String(),
		"Name":          variation.SKU,
		"SalesDesc":     variation.Title,
		"SalesPrice":    variation.Price,
		"PurchaseCost":  variation.Cost,
		"IncomeAccount": "",
		"COGSAccount":   "",
		"AssetAccount":  "",
	}, nil
}

func (p *Populator) orderProps(ctx context.Context, job *export.Job) (qbxml.Properties, error) {
	order, err := p.orders.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return nil, err
	}

	customer, err := p.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	props := qbxml.Properties{
		"RequestID":      job.ID.String(),
		"CustomerListID": customer.QuickBooksID,
		"TxnDate":        order.CreatedAt,
		"RefNumber":      order.Number,
		"Lines":          orderLines(order),
	}
	if job.Type == export.JobTypeModInvoice {
		props["TxnID"] = order.QuickBooksID
		props["EditSequence"] = order.QuickBooksEditSequence
	}
	return props, nil
}

func (p *Populator) paymentProps(ctx context.Context, job *export.Job) (qbxml.Properties, error) {
	payment, err := p.payments.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return nil, err
	}

	order, err := p.orders.FindByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	customer, err := p.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	refNumber := payment.ReferenceNum
	if refNumber == "" {
		refNumber = order.Number
	}

	return qbxml.Properties{
		"RequestID":      job.ID.String(),
		"CustomerListID": customer.QuickBooksID,
		"TxnDate":        payment.CreatedAt,
		"RefNumber":      refNumber,
		"TotalAmount":    payment.Amount,
		"PaymentMethod":  strings.ReplaceAll(payment.Method, "_", " "),
		"AppliedToTxnID": order.QuickBooksID,
	}, nil
}

func orderLines(order *commerce.Order) []qbxml.Line {
	lines := make([]qbxml.Line, len(order.Items))
	for i, item := range order.Items {
		lines[i] = qbxml.Line{
			ItemName: item.SKU,
			Desc:     item.Title,
			Quantity: item.Quantity,
			Rate:     item.UnitPrice,
		}
	}
	return lines
}
