package soap

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxRequestBytes bounds incoming SOAP payloads. qbXML replies for a single
// job are small; anything beyond this is not a web connector talking to us.
const maxRequestBytes = 4 << 20

// Gateway is the application surface the SOAP endpoint dispatches to,
// one method per web connector operation.
type Gateway interface {
	ServerVersion(ctx context.Context) string
	ClientVersion(ctx context.Context, version string) string
	Authenticate(ctx context.Context, username, password string) (string, string)
	SendRequest(ctx context.Context, ticket string) string
	ReceiveResponse(ctx context.Context, ticket, payload, hresult, message string) int
	LastError(ctx context.Context, ticket string) string
	CloseConnection(ctx context.Context, ticket string) string
}

// Handler serves the QuickBooks Web Connector SOAP endpoint
type Handler struct {
	service Gateway
	logger  *zap.Logger
}

// NewHandler creates a new SOAP handler
func NewHandler(service Gateway, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Endpoint handles a single SOAP POST from the web connector
func (h *Handler) Endpoint(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBytes))
	if err != nil {
		h.fault(c, http.StatusBadRequest, "Client", "unreadable request body")
		return
	}

	env, err := decodeRequest(raw)
	if err != nil {
		h.logger.Warn("rejecting malformed soap request", zap.Error(err))
		h.fault(c, http.StatusBadRequest, "Client", "malformed soap envelope")
		return
	}

	ctx := c.Request.Context()
	body := env.Body

	var payload interface{}
	switch {
	case body.ServerVersion != nil:
		payload = &serverVersionResponse{
			XMLNS:  Namespace,
			Result: h.service.ServerVersion(ctx),
		}
	case body.ClientVersion != nil:
		payload = &clientVersionResponse{
			XMLNS:  Namespace,
			Result: h.service.ClientVersion(ctx, body.ClientVersion.Version),
		}
	case body.Authenticate != nil:
		ticket, directive := h.service.Authenticate(ctx,
			body.Authenticate.Username, body.Authenticate.Password)
		payload = &authenticateResponse{
			XMLNS:  Namespace,
			Result: authenticateResult{Strings: []string{ticket, directive}},
		}
	case body.SendRequest != nil:
		payload = &sendRequestXMLResponse{
			XMLNS:  Namespace,
			Result: h.service.SendRequest(ctx, body.SendRequest.Ticket),
		}
	case body.ReceiveResponse != nil:
		req := body.ReceiveResponse
		payload = &receiveResponseXMLResponse{
			XMLNS:  Namespace,
			Result: h.service.ReceiveResponse(ctx, req.Ticket, req.Response, req.HResult, req.Message),
		}
	case body.GetLastError != nil:
		payload = &getLastErrorResponse{
			XMLNS:  Namespace,
			Result: h.service.LastError(ctx, body.GetLastError.Ticket),
		}
	case body.CloseConnection != nil:
		payload = &closeConnectionResponse{
			XMLNS:  Namespace,
			Result: h.service.CloseConnection(ctx, body.CloseConnection.Ticket),
		}
	default:
		h.fault(c, http.StatusBadRequest, "Client", "unknown soap action")
		return
	}

	out, err := encodeResponse(payload)
	if err != nil {
		h.logger.Error("encoding soap response failed", zap.Error(err))
		h.fault(c, http.StatusInternalServerError, "Server", "response encoding failed")
		return
	}

	c.Data(http.StatusOK, "text/xml; charset=utf-8", out)
}

// fault writes a SOAP fault envelope. The web connector surfaces the
// faultstring to the operator, so keep it short and free of internals.
func (h *Handler) fault(c *gin.Context, status int, code, message string) {
	out, err := encodeResponse(&soapFault{
		Code:    "soap:" + code,
		Message: message,
	})
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "text/xml; charset=utf-8", out)
}

// RegisterRoutes mounts the connector endpoints on the given router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/qbwc", h.Endpoint)
}
