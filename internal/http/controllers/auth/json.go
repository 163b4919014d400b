package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/sessiond/internal/http/errors"
)

const (
	maxJSONBody     = 64 << 10 // 64KB
	contentTypeJSON = "application/json; charset=utf-8"
)

// readJSON decodifica el body JSON en dst. Escribe el error y retorna false
// si el body es inválido.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(ct, "application/json") {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("Content-Type: application/json requerido"))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithDetail("body vacío"))
		} else {
			httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		}
		return false
	}
	if dec.More() {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithDetail("sobran datos en el body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
