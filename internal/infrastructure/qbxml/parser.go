package qbxml

import (
	"encoding/xml"
	"strings"
)

// Error codes QuickBooks reports that change how a response is resolved.
// Codes are compared as strings; QuickBooks pads none of them.
const (
	CodeDuplicate = "3100"
	CodeRetryable = "3180"
)

// Reference identifier keys extracted from response elements
const (
	RefListID       = "ListID"
	RefTxnID        = "TxnID"
	RefEditSequence = "EditSequence"
)

// RemoteError is one statusCode/statusMessage pair reported by QuickBooks
type RemoteError struct {
	Code    string
	Message string
}

// IsDuplicate reports whether the error marks an already-exported record
func (e RemoteError) IsDuplicate() bool {
	return e.Code == CodeDuplicate
}

// IsRetryable reports whether the error is transient and the job should stay queued
func (e RemoteError) IsRetryable() bool {
	return e.Code == CodeRetryable
}

// responseElements names the qbXML response elements whose identifiers we
// reconcile back onto business objects
var responseElements = map[string]bool{
	"SalesReceiptAddRs":     true,
	"InvoiceAddRs":          true,
	"InvoiceModRs":          true,
	"ReceivePaymentAddRs":   true,
	"ItemNonInventoryAddRs": true,
	"ItemInventoryAddRs":    true,
	"CustomerAddRs":         true,
}

// ParseErrors extracts every element under QBXMLMsgsRs whose statusSeverity
// attribute is "Error", as code/message pairs in document order. A document
// that fails to parse yields whatever errors were seen before the bad token.
func ParseErrors(doc string) []RemoteError {
	var errs []RemoteError

	decoder := xml.NewDecoder(strings.NewReader(doc))
	depth := 0
	msgsDepth := -1

	for {
		token, err := decoder.Token()
		if err != nil {
			return errs
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "QBXMLMsgsRs" && msgsDepth < 0 {
				msgsDepth = depth
				continue
			}
			if msgsDepth < 0 || depth <= msgsDepth {
				continue
			}
			if severity(t) == "Error" {
				errs = append(errs, RemoteError{
					Code:    attr(t, "statusCode"),
					Message: attr(t, "statusMessage"),
				})
			}
		case xml.EndElement:
			if depth == msgsDepth {
				return errs
			}
			depth--
		}
	}
}

// ExtractReferenceIDs returns the identifiers QuickBooks assigned, keyed by
// ListID / TxnID / EditSequence. Elements flagged as errors are skipped, and
// scanning stops at the first recognized element that yields anything: a
// response carries at most one job.
func ExtractReferenceIDs(doc string) map[string]string {
	decoder := xml.NewDecoder(strings.NewReader(doc))

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if !responseElements[start.Name.Local] {
			continue
		}
		if severity(start) == "Error" {
			if err := decoder.Skip(); err != nil {
				return nil
			}
			continue
		}

		refs := collectRefs(decoder, start.Name.Local)
		if len(refs) > 0 {
			return refs
		}
	}
}

// collectRefs reads the subtree of one response element, picking up the
// identifier leaves wherever they nest
func collectRefs(decoder *xml.Decoder, parent string) map[string]string {
	refs := make(map[string]string)
	var current string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case RefListID, RefTxnID, RefEditSequence:
				current = t.Name.Local
			default:
				current = ""
			}
		case xml.EndElement:
			depth--
			current = ""
		case xml.CharData:
			if current != "" {
				if value := strings.TrimSpace(string(t)); value != "" {
					refs[current] = value
				}
			}
		}
	}

	if len(refs) == 0 {
		return nil
	}
	return refs
}

func severity(el xml.StartElement) string {
	return attr(el, "statusSeverity")
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
