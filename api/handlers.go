package api

import "time"

// Dependencies are the collaborators the HTTP layer serves.
type Dependencies struct {
	Intake      ContactSubmitter
	Posts       PostResolver
	Legal       DocumentGetter
	Submissions SubmissionLister
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, adminSecret string, startupTime time.Time) *routeHandlers {
	handlers := &routeHandlers{
		contactHandler:  newContactHandler(deps.Intake),
		blogPostHandler: newBlogPostHandler(deps.Posts),
		legalHandler:    newLegalHandler(deps.Legal),
		healthHandler:   newHealthHandler(startupTime),
	}
	if adminSecret != "" && deps.Submissions != nil {
		handlers.adminHandler = newAdminHandler(deps.Submissions)
	}
	return handlers
}
