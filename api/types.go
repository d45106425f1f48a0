package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	contactHandler  contactHandler
	blogPostHandler blogPostHandler
	legalHandler    legalHandler
	healthHandler   healthHandler
	adminHandler    *adminHandler // nil when no admin secret is configured
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string              `json:"error" example:"Invalid input"`
	Details map[string][]string `json:"details,omitempty"`
}

// ContactCreatedResponse is returned for an accepted contact submission.
// ID and TicketID always hold the same value.
type ContactCreatedResponse struct {
	OK       bool   `json:"ok" example:"true"`
	ID       string `json:"id"`
	TicketID string `json:"ticketId"`
}
