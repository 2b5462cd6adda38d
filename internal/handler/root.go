package handler

import "net/http"

const (
	MsgWelcome          = "Welcome to the coursehub REST API"
	MsgRouteNotFound    = "Route Not Found"
	MsgMethodNotAllowed = "Method Not Allowed"
)

// HandleWelcome answers GET / so a browser pointed at the API sees it is up.
func HandleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgWelcome})
}

// HandleNotFound replaces chi's plain-text 404.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, MessageResponse{Message: MsgRouteNotFound})
}

// HandleMethodNotAllowed replaces chi's plain-text 405.
func HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, MessageResponse{Message: MsgMethodNotAllowed})
}
