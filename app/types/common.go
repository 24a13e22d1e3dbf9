package types

// Machine-readable error codes surfaced on non-2xx responses.
const (
	CodeMissingPriceReference = "MissingPriceReference"
	CodeInvalidPriceReference = "InvalidPriceReference"
	CodeInvalidSignature      = "InvalidSignature"
	CodeGatewayUnavailable    = "GatewayUnavailable"
	CodeInternalFailure       = "InternalFailure"
)

type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
