package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/loginwatch/internal/models"
	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
)

// writeServiceError maps service sentinels onto HTTP responses
func writeServiceError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, notFoundMessage)
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Authentication required")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Resource already exists")
	case errors.Is(err, models.ErrStoreFailure):
		pkghttp.WriteStoreFailure(w)
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
