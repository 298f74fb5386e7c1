package utils

import (
	"net/http"
	"strings"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusText is the lowercase reason phrase for code.
func StatusText(code int) string {
	return strings.ToLower(http.StatusText(code))
}
