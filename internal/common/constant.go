package common

// Request metadata keys used to carry the two session secrets and the
// anti-forgery token on inbound requests.
const (
	SessionIDHeaderName = "X-Session-ID"
	TokenHeaderName     = "X-Token"
	CSRFTokenHeaderName = "X-CSRF-Token"
	CSRFTokenFieldName  = "csrf_token"
)

// HiddenFieldMarker replaces the sensitive field in projections for roles
// that may see the record but not its confidential value.
const HiddenFieldMarker = "[Sensitive Data Hidden]"
