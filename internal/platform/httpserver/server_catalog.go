package httpserver

import (
	"errors"
	"net/http"
	"strings"

	catalogerrors "brandcast/contexts/content-publishing/format-catalog/domain/errors"
	cataloghttp "brandcast/contexts/content-publishing/format-catalog/transport/http"
)

func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	resp := s.catalog.Handler.ListFormatsHandler(r.Context())

	// Optional platform filter.
	if platform := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("platform"))); platform != "" {
		filtered := make([]cataloghttp.PlatformFormatDTO, 0, len(resp.Formats))
		for _, format := range resp.Formats {
			if format.Platform == platform {
				filtered = append(filtered, format)
			}
		}
		resp.Formats = filtered
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetFormat(w http.ResponseWriter, r *http.Request) {
	platform := r.PathValue("platform")
	format := r.PathValue("format")
	resp, err := s.catalog.Handler.GetFormatHandler(r.Context(), platform, format)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrFormatNotFound):
		writeCatalogError(w, http.StatusNotFound, "format_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidFormatDefinition):
		writeCatalogError(w, http.StatusBadRequest, "invalid_format_definition", err.Error())
	case errors.Is(err, catalogerrors.ErrCatalogSourceUnavailable):
		writeCatalogError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
