package qbxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Properties is the property bag a request template renders from.
// The populate step fills every key a template dereferences unconditionally;
// optional keys sit behind template guards.
type Properties map[string]interface{}

// Line is one transaction line in an invoice, receipt or modification request
type Line struct {
	ItemName string
	Desc     string
	Quantity int
	Rate     decimal.Decimal
}

const envelope = `<?xml version="1.0" encoding="utf-8"?>
<?qbxml version="13.0"?>
<QBXML>
<QBXMLMsgsRq onError="stopOnError">
%s</QBXMLMsgsRq>
</QBXML>
`

// Builder renders qbXML request documents from per-type templates
type Builder struct {
	templates map[export.JobType]*template.Template
}

// NewBuilder parses the request templates for every job type
func NewBuilder() (*Builder, error) {
	b := &Builder{templates: make(map[export.JobType]*template.Template)}

	funcMap := template.FuncMap{
		"escape":  escapeXML,
		"amount":  formatAmount,
		"date":    formatDate,
		"title":   titleCase,
		"default": defaultValue,
	}

	for jobType, body := range requestTemplates {
		tmpl, err := template.New(string(jobType)).Funcs(funcMap).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse request template %s: %w", jobType, err)
		}
		b.templates[jobType] = tmpl
	}

	return b, nil
}

// Build renders the request document for the job type from the property bag.
// An unknown type or an empty render yields no document.
func (b *Builder) Build(jobType export.JobType, props Properties) (string, error) {
	tmpl, ok := b.templates[jobType]
	if !ok {
		return "", shared.NewDomainError("INVALID_JOB_TYPE", "No request template for job type: "+string(jobType))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("render %s request: %w", jobType, err)
	}

	body := strings.TrimSpace(buf.String())
	if body == "" {
		return "", shared.NewDomainError("EMPTY_DOCUMENT", "Request template for "+string(jobType)+" rendered nothing")
	}

	return fmt.Sprintf(envelope, body+"\n"), nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on writer errors, which bytes.Buffer never returns
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func formatAmount(v interface{}) string {
	switch amount := v.(type) {
	case decimal.Decimal:
		return amount.StringFixed(2)
	case *decimal.Decimal:
		if amount == nil {
			return "0.00"
		}
		return amount.StringFixed(2)
	case float64:
		return decimal.NewFromFloat(amount).StringFixed(2)
	case int:
		return decimal.NewFromInt(int64(amount)).StringFixed(2)
	case string:
		if d, err := decimal.NewFromString(amount); err == nil {
			return d.StringFixed(2)
		}
		return amount
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatDate(v interface{}) string {
	switch date := v.(type) {
	case time.Time:
		return date.Format("2006-01-02")
	case *time.Time:
		if date == nil {
			return ""
		}
		return date.Format("2006-01-02")
	case string:
		return date
	default:
		return fmt.Sprintf("%v", v)
	}
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}

func defaultValue(def, value interface{}) interface{} {
	if value == nil {
		return def
	}
	if s, ok := value.(string); ok && s == "" {
		return def
	}
	return value
}
