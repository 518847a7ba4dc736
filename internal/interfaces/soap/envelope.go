package soap

import (
	"encoding/xml"
	"fmt"
)

// Namespace is the QuickBooks Web Connector service namespace. Every
// operation element and every response payload lives under it.
const Namespace = "http://developer.intuit.com/"

// requestEnvelope is the lenient decode target for an incoming SOAP 1.1
// request. Element names are matched by local name only, so the envelope
// prefix the connector happens to use does not matter.
type requestEnvelope struct {
	XMLName xml.Name    `xml:"Envelope"`
	Body    requestBody `xml:"Body"`
}

// requestBody holds one pointer per operation; exactly one is non-nil
// after a successful decode of a well-formed request.
type requestBody struct {
	ServerVersion   *serverVersionRequest   `xml:"serverVersion"`
	ClientVersion   *clientVersionRequest   `xml:"clientVersion"`
	Authenticate    *authenticateRequest    `xml:"authenticate"`
	SendRequest     *sendRequestXMLRequest  `xml:"sendRequestXML"`
	ReceiveResponse *receiveResponseRequest `xml:"receiveResponseXML"`
	GetLastError    *getLastErrorRequest    `xml:"getLastError"`
	CloseConnection *closeConnectionRequest `xml:"closeConnection"`
}

type serverVersionRequest struct{}

type clientVersionRequest struct {
	Version string `xml:"strVersion"`
}

type authenticateRequest struct {
	Username string `xml:"strUserName"`
	Password string `xml:"strPassword"`
}

type sendRequestXMLRequest struct {
	Ticket          string `xml:"ticket"`
	HCPResponse     string `xml:"strHCPResponse"`
	CompanyFileName string `xml:"strCompanyFileName"`
	Country         string `xml:"qbXMLCountry"`
	MajorVersion    int    `xml:"qbXMLMajorVers"`
	MinorVersion    int    `xml:"qbXMLMinorVers"`
}

type receiveResponseRequest struct {
	Ticket   string `xml:"ticket"`
	Response string `xml:"response"`
	HResult  string `xml:"hresult"`
	Message  string `xml:"message"`
}

type getLastErrorRequest struct {
	Ticket string `xml:"ticket"`
}

type closeConnectionRequest struct {
	Ticket string `xml:"ticket"`
}

// responseEnvelope wraps a single operation response payload
type responseEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    responseBody
}

type responseBody struct {
	XMLName xml.Name `xml:"soap:Body"`
	Payload interface{}
}

type serverVersionResponse struct {
	XMLName xml.Name `xml:"serverVersionResponse"`
	XMLNS   string   `xml:"xmlns,attr"`
	Result  string   `xml:"serverVersionResult"`
}

type clientVersionResponse struct {
	XMLName xml.Name `xml:"clientVersionResponse"`
	XMLNS   string   `xml:"xmlns,attr"`
	Result  string   `xml:"clientVersionResult"`
}

type authenticateResponse struct {
	XMLName xml.Name           `xml:"authenticateResponse"`
	XMLNS   string             `xml:"xmlns,attr"`
	Result  authenticateResult `xml:"authenticateResult"`
}

// authenticateResult is the two-element string array the connector
// expects: the session ticket and the post-auth directive.
type authenticateResult struct {
	Strings []string `xml:"string"`
}

type sendRequestXMLResponse struct {
	XMLName xml.Name `xml:"sendRequestXMLResponse"`
	XMLNS   string   `xml:"xmlns,attr"`
	Result  string   `xml:"sendRequestXMLResult"`
}

type receiveResponseXMLResponse struct {
	XMLName xml.Name `xml:"receiveResponseXMLResponse"`
	XMLNS   string   `xml:"xmlns,attr"`
	Result  int      `xml:"receiveResponseXMLResult"`
}

type getLastErrorResponse struct {
	XMLName xml.Name `xml:"getLastErrorResponse"`
	XMLNS   string   `xml:"xmlns,attr"`
	Result  string   `xml:"getLastErrorResult"`
}

type closeConnectionResponse struct {
	XMLName xml.Name `xml:"closeConnectionResponse"`
	XMLNS   string   `xml:"xmlns,attr"`
	Result  string   `xml:"closeConnectionResult"`
}

type soapFault struct {
	XMLName xml.Name `xml:"soap:Fault"`
	Code    string   `xml:"faultcode"`
	Message string   `xml:"faultstring"`
}

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// decodeRequest parses a SOAP request body into its envelope form
func decodeRequest(raw []byte) (*requestEnvelope, error) {
	var env requestEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed soap envelope: %w", err)
	}
	return &env, nil
}

// encodeResponse wraps an operation payload in a SOAP 1.1 envelope
func encodeResponse(payload interface{}) ([]byte, error) {
	env := responseEnvelope{
		SoapNS: soapEnvelopeNS,
		Body:   responseBody{Payload: payload},
	}
	out, err := xml.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
