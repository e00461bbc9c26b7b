package translator

import "fmt"

// RemoteError is a non-zero error code reported by the translation service.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("service error %s: %s", e.Code, e.Message)
}

// errorMessages maps service error codes to descriptions.
var errorMessages = map[string]string{
	"101": "missing required parameter",
	"102": "unsupported language type",
	"103": "text too long",
	"104": "unsupported API type",
	"105": "unsupported signature type",
	"106": "unsupported response type",
	"107": "unsupported encryption type",
	"108": "invalid application ID",
	"109": "invalid batch log",
	"110": "no service available",
	"111": "invalid developer account",
	"112": "invalid service request",
	"113": "empty query",
	"114": "signature verification failed",
	"116": "empty q parameter",
	"201": "decryption failed",
	"202": "signature verification failed",
	"203": "client IP not in allow list",
	"205": "application does not exist",
	"206": "application not activated",
	"301": "dictionary lookup failed",
	"302": "translation lookup failed",
	"303": "service connection error",
	"304": "service lookup failed",
	"401": "insufficient account balance",
	"411": "request rate limited",
	"412": "long requests too frequent",
}

// ErrorMessage returns the description of a service error code.
func ErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "unknown error: " + code
}
