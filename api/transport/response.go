package transport

// Envelope wraps every response body the API produces.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorBody pairs a machine-readable code with a message for the client.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccess wraps data in a success envelope. Meta is optional and carries
// request-level hints such as the buffered-write flag.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
		Meta:    meta,
	}
}

// NewError builds an error envelope.
func NewError(code, message string, meta interface{}) Envelope {
	return Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
		Meta:    meta,
	}
}
