package tool

// Status values of the handler envelope. Status is the only field a caller
// may branch on; everything else is handler-specific payload.
const (
	StatusReport   = "report"
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Result is the uniform envelope every capability handler returns. Handlers
// never raise past their boundary: every code path yields an envelope.
type Result struct {
	Status       string `json:"status"`
	Report       string `json:"report,omitempty"`
	Message      string `json:"message,omitempty"`
	OrderID      string `json:"order_id,omitempty"`
	IntroMessage string `json:"intro_message,omitempty"`
}

func Report(report string) Result {
	return Result{Status: StatusReport, Report: report}
}

func Success(orderID, message string) Result {
	return Result{Status: StatusSuccess, OrderID: orderID, Message: message}
}

func NotFound(message string) Result {
	return Result{Status: StatusNotFound, Message: message}
}

func Error(message string) Result {
	return Result{Status: StatusError, Message: message}
}
