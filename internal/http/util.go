package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// pathValue returns a trimmed path parameter, writing a 400 when it is blank.
func pathValue(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New(name + " is required"),
		})
		return "", false
	}
	return v, true
}

// queryValue returns a trimmed query parameter or the empty string.
func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
