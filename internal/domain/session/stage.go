package session

// Call names the seven remote procedures of the web connector protocol
type Call string

const (
	CallServerVersion   Call = "serverVersion"
	CallClientVersion   Call = "clientVersion"
	CallAuthenticate    Call = "authenticate"
	CallSendRequest     Call = "sendRequestXML"
	CallReceiveResponse Call = "receiveResponseXML"
	CallGetLastError    Call = "getLastError"
	CallCloseConnection Call = "closeConnection"
)

// nextSteps is the protocol's legal call graph. The key is the last call the
// session completed; the value is the set of calls the client may make next.
// An unexpected call usually means the connection dropped mid-run, and the
// session is invalidated outright.
var nextSteps = map[Call][]Call{
	CallServerVersion:   {CallClientVersion},
	CallClientVersion:   {CallAuthenticate},
	CallAuthenticate:    {CallSendRequest, CallCloseConnection},
	CallSendRequest:     {CallGetLastError, CallReceiveResponse},
	CallReceiveResponse: {CallGetLastError, CallSendRequest, CallCloseConnection},
	CallGetLastError:    {CallCloseConnection, CallSendRequest},
	CallCloseConnection: {},
}

// InitialStage is the stage a freshly authenticated session starts in
const InitialStage = CallAuthenticate

// IsPublicCall reports whether the call is exempt from session validation
func IsPublicCall(call Call) bool {
	switch call {
	case CallServerVersion, CallClientVersion, CallAuthenticate:
		return true
	}
	return false
}

// CanFollow reports whether next is a legal call after the given stage
func CanFollow(stage Call, next Call) bool {
	for _, allowed := range nextSteps[stage] {
		if allowed == next {
			return true
		}
	}
	return false
}
