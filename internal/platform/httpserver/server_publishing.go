package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	publishingerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	publishinghttp "brandcast/contexts/content-publishing/publishing-service/transport/http"
)

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	var req publishinghttp.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePublishingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.publishing.Handler.CreateCardHandler(r.Context(), req)
	if err != nil {
		writePublishingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	query := r.URL.Query()
	status := query.Get("status")
	if strings.TrimSpace(status) == "" {
		writePublishingError(w, http.StatusBadRequest, "missing_status", "status query parameter is required")
		return
	}
	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writePublishingError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.publishing.Handler.ListCardsByStatusHandler(r.Context(), status, limit)
	if err != nil {
		writePublishingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	resp, err := s.publishing.Handler.GetCardHandler(r.Context(), r.PathValue("card_id"))
	if err != nil {
		writePublishingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAttachContract(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	var req publishinghttp.AttachContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePublishingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.publishing.Handler.AttachContractHandler(r.Context(), r.PathValue("card_id"), req)
	if err != nil {
		writePublishingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	resp, err := s.publishing.Handler.ListContractsHandler(r.Context(), r.PathValue("card_id"))
	if err != nil {
		writePublishingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkContractReady(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	result, err := s.publishing.Handler.MarkContractReadyHandler(
		r.Context(),
		r.PathValue("card_id"),
		r.PathValue("contract_id"),
	)
	if err != nil {
		if errors.Is(err, publishingerrors.ErrContractPayloadInvalid) {
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		writePublishingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleScheduleCard(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	var req publishinghttp.ScheduleCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePublishingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.publishing.Handler.ScheduleCardHandler(r.Context(), r.PathValue("card_id"), req); err != nil {
		writePublishingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnscheduleCard(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	if err := s.publishing.Handler.UnscheduleCardHandler(r.Context(), r.PathValue("card_id")); err != nil {
		writePublishingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublishCard(w http.ResponseWriter, r *http.Request) {
	if !requirePublishingAuthorization(w, r) {
		return
	}
	resp, err := s.publishing.Handler.PublishCardHandler(r.Context(), r.PathValue("card_id"))
	if err != nil {
		writePublishingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requirePublishingAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writePublishingError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func writePublishingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, publishinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writePublishingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, publishingerrors.ErrCardNotFound):
		writePublishingError(w, http.StatusNotFound, "card_not_found", err.Error())
	case errors.Is(err, publishingerrors.ErrContractNotFound):
		writePublishingError(w, http.StatusNotFound, "contract_not_found", err.Error())
	case errors.Is(err, publishingerrors.ErrCardExists):
		writePublishingError(w, http.StatusConflict, "card_exists", err.Error())
	case errors.Is(err, publishingerrors.ErrContractExists):
		writePublishingError(w, http.StatusConflict, "contract_exists", err.Error())
	case errors.Is(err, publishingerrors.ErrInvalidStateTransition):
		writePublishingError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, publishingerrors.ErrNoReadyContracts):
		writePublishingError(w, http.StatusPreconditionFailed, "no_ready_contracts", err.Error())
	case errors.Is(err, publishingerrors.ErrContractPayloadInvalid):
		writePublishingError(w, http.StatusUnprocessableEntity, "contract_payload_invalid", err.Error())
	case errors.Is(err, publishingerrors.ErrInvalidSchedule):
		writePublishingError(w, http.StatusBadRequest, "invalid_schedule", err.Error())
	case errors.Is(err, publishingerrors.ErrInvalidPublishingInput):
		writePublishingError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writePublishingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
