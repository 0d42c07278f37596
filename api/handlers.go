package api

import (
	"github.com/feldspar-labs/inkwell-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(store database.PostStore) *routeHandlers {
	return &routeHandlers{
		postHandler:   newPostHandler(store),
		healthHandler: newHealthHandler(store),
	}
}
