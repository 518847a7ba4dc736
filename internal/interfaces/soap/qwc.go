package soap

import (
	"encoding/xml"
	"net/http"

	"github.com/commerceqb/gateway/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// qwcFile is the connector configuration document a QuickBooks operator
// imports once to register this gateway.
type qwcFile struct {
	XMLName        xml.Name `xml:"QBWCXML"`
	AppName        string   `xml:"AppName"`
	AppID          string   `xml:"AppID"`
	AppURL         string   `xml:"AppURL"`
	AppDescription string   `xml:"AppDescription"`
	AppSupport     string   `xml:"AppSupport"`
	UserName       string   `xml:"UserName"`
	OwnerID        string   `xml:"OwnerID"`
	FileID         string   `xml:"FileID"`
	QBType         string   `xml:"QBType"`
	Style          string   `xml:"Style"`
}

// QWCHandler serves the downloadable .qwc registration file
type QWCHandler struct {
	cfg config.QuickBooksConfig
}

// NewQWCHandler creates a new QWC download handler
func NewQWCHandler(cfg config.QuickBooksConfig) *QWCHandler {
	return &QWCHandler{cfg: cfg}
}

// Download renders the .qwc file as an attachment
func (h *QWCHandler) Download(c *gin.Context) {
	doc := qwcFile{
		AppName:        h.cfg.AppName,
		AppURL:         h.cfg.AppURL,
		AppDescription: "Exports customers, products, invoices and payments to QuickBooks",
		AppSupport:     h.cfg.AppSupport,
		UserName:       h.cfg.Username,
		OwnerID:        h.cfg.OwnerID,
		FileID:         h.cfg.FileID,
		QBType:         h.cfg.QBType,
		Style:          "Document",
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="gateway.qwc"`)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

// RegisterRoutes mounts the download endpoint on the given router group
func (h *QWCHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/qbwc/qwc", h.Download)
}
