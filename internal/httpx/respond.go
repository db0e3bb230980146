package httpx

import (
	"encoding/json"
	"net/http"
)

// FieldError is one entry of a 422 response body, shaped like
// {"detail": [{"loc": ["body", "quantity"], "msg": "...", "type": "..."}]}.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

func writeFieldErrors(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
}

func fieldError(loc []string, msg string) FieldError {
	return FieldError{Loc: loc, Msg: msg, Type: "value_error"}
}

func writeInvalidJSON(w http.ResponseWriter) {
	writeFieldErrors(w, []FieldError{
		{Loc: []string{"body"}, Msg: "Invalid JSON body", Type: "value_error.jsondecode"},
	})
}
