package qbxml

import "github.com/commerceqb/gateway/internal/domain/export"

// requestTemplates maps each job type to its qbXML request body.
// The builder wraps the rendered body in the QBXML envelope.
var requestTemplates = map[export.JobType]string{
	export.JobTypeAddCustomer: `<CustomerAddRq requestID="{{.RequestID}}">
<CustomerAdd>
<Name>{{escape .Name}}</Name>
<FirstName>{{escape .FirstName}}</FirstName>
<LastName>{{escape .LastName}}</LastName>
{{- if .CompanyName}}
<CompanyName>{{escape .CompanyName}}</CompanyName>
{{- end}}
{{- if .Phone}}
<Phone>{{escape .Phone}}</Phone>
{{- end}}
{{- if .Email}}
<Email>{{escape .Email}}</Email>
{{- end}}
<BillAddress>
<Addr1>{{escape .BillLine1}}</Addr1>
{{- if .BillLine2}}
<Addr2>{{escape .BillLine2}}</Addr2>
{{- end}}
<City>{{escape .BillCity}}</City>
<State>{{escape .BillProvince}}</State>
<PostalCode>{{escape .BillPostalCode}}</PostalCode>
<Country>{{escape .BillCountry}}</Country>
</BillAddress>
</CustomerAdd>
</CustomerAddRq>`,

	export.JobTypeAddInventoryProduct: `<ItemInventoryAddRq requestID="{{.RequestID}}">
<ItemInventoryAdd>
<Name>{{escape .Name}}</Name>
<SalesDesc>{{escape .SalesDesc}}</SalesDesc>
<SalesPrice>{{amount .SalesPrice}}</SalesPrice>
<IncomeAccountRef>
<FullName>{{escape (default "Sales" .IncomeAccount)}}</FullName>
</IncomeAccountRef>
<PurchaseCost>{{amount .PurchaseCost}}</PurchaseCost>
<COGSAccountRef>
<FullName>{{escape (default "Cost of Goods Sold" .COGSAccount)}}</FullName>
</COGSAccountRef>
<AssetAccountRef>
<FullName>{{escape (default "Inventory Asset" .AssetAccount)}}</FullName>
</AssetAccountRef>
</ItemInventoryAdd>
</ItemInventoryAddRq>`,

	export.JobTypeAddNonInventoryProduct: `<ItemNonInventoryAddRq requestID="{{.RequestID}}">
<ItemNonInventoryAdd>
<Name>{{escape .Name}}</Name>
<SalesOrPurchase>
<Desc>{{escape .SalesDesc}}</Desc>
<Price>{{amount .SalesPrice}}</Price>
<AccountRef>
<FullName>{{escape (default "Sales" .IncomeAccount)}}</FullName>
</AccountRef>
</SalesOrPurchase>
</ItemNonInventoryAdd>
</ItemNonInventoryAddRq>`,

	export.JobTypeAddInvoice: `<InvoiceAddRq requestID="{{.RequestID}}">
<InvoiceAdd>
<CustomerRef>
<ListID>{{escape .CustomerListID}}</ListID>
</CustomerRef>
<TxnDate>{{date .TxnDate}}</TxnDate>
<RefNumber>{{escape .RefNumber}}</RefNumber>
{{- range .Lines}}
<InvoiceLineAdd>
<ItemRef>
<FullName>{{escape .ItemName}}</FullName>
</ItemRef>
<Desc>{{escape .Desc}}</Desc>
<Quantity>{{.Quantity}}</Quantity>
<Rate>{{amount .Rate}}</Rate>
</InvoiceLineAdd>
{{- end}}
</InvoiceAdd>
</InvoiceAddRq>`,

	export.JobTypeModInvoice: `<InvoiceModRq requestID="{{.RequestID}}">
<InvoiceMod>
<TxnID>{{escape .TxnID}}</TxnID>
<EditSequence>{{escape .EditSequence}}</EditSequence>
<RefNumber>{{escape .RefNumber}}</RefNumber>
{{- range .Lines}}
<InvoiceLineMod>
<TxnLineID>-1</TxnLineID>
<ItemRef>
<FullName>{{escape .ItemName}}</FullName>
</ItemRef>
<Desc>{{escape .Desc}}</Desc>
<Quantity>{{.Quantity}}</Quantity>
<Rate>{{amount .Rate}}</Rate>
</InvoiceLineMod>
{{- end}}
</InvoiceMod>
</InvoiceModRq>`,

	export.JobTypeAddSalesReceipt: `<SalesReceiptAddRq requestID="{{.RequestID}}">
<SalesReceiptAdd>
<CustomerRef>
<ListID>{{escape .CustomerListID}}</ListID>
</CustomerRef>
<TxnDate>{{date .TxnDate}}</TxnDate>
<RefNumber>{{escape .RefNumber}}</RefNumber>
{{- range .Lines}}
<SalesReceiptLineAdd>
<ItemRef>
<FullName>{{escape .ItemName}}</FullName>
</ItemRef>
<Desc>{{escape .Desc}}</Desc>
<Quantity>{{.Quantity}}</Quantity>
<Rate>{{amount .Rate}}</Rate>
</SalesReceiptLineAdd>
{{- end}}
</SalesReceiptAdd>
</SalesReceiptAddRq>`,

	export.JobTypeAddPayment: `<ReceivePaymentAddRq requestID="{{.RequestID}}">
<ReceivePaymentAdd>
<CustomerRef>
<ListID>{{escape .CustomerListID}}</ListID>
</CustomerRef>
<TxnDate>{{date .TxnDate}}</TxnDate>
<RefNumber>{{escape .RefNumber}}</RefNumber>
<TotalAmount>{{amount .TotalAmount}}</TotalAmount>
<PaymentMethodRef>
<FullName>{{title .PaymentMethod}}</FullName>
</PaymentMethodRef>
{{- if .AppliedToTxnID}}
<AppliedToTxnAdd>
<TxnID>{{escape .AppliedToTxnID}}</TxnID>
<PaymentAmount>{{amount .TotalAmount}}</PaymentAmount>
</AppliedToTxnAdd>
{{- end}}
</ReceivePaymentAdd>
</ReceivePaymentAddRq>`,
}
