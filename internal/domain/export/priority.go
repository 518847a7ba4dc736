package export

// PriorityOrder is the configured sequence in which job types are considered
// when selecting the next job. Priority beats recency across types; recency
// decides within a type.
type PriorityOrder []JobType

// DefaultPriorityOrder returns the hard-coded server default: referenced
// records (customers, products) export before the documents that point at
// them, and payments go last.
func DefaultPriorityOrder() PriorityOrder {
	return PriorityOrder{
		JobTypeAddCustomer,
		JobTypeAddInventoryProduct,
		JobTypeAddNonInventoryProduct,
		JobTypeAddInvoice,
		JobTypeModInvoice,
		JobTypeAddSalesReceipt,
		JobTypeAddPayment,
	}
}

// ParsePriorityOrder builds a PriorityOrder from configured type names,
// silently skipping unknown entries. An empty result means "oldest pending
// of any type".
func ParsePriorityOrder(names []string) PriorityOrder {
	order := make(PriorityOrder, 0, len(names))
	for _, name := range names {
		if t := JobType(name); IsValidJobType(t) {
			order = append(order, t)
		}
	}
	return order
}
