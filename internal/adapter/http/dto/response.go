package dto

// Envelope wraps every successful API response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// OK wraps a payload in the success envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}
