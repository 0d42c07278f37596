package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler   postHandler
	healthHandler healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
	Field  string `json:"field,omitempty"`
}

// DeleteResponse confirms a permanent delete.
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}
