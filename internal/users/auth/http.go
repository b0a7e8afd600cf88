// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/critikahq/critika/internal/platform/request"
	"github.com/critikahq/critika/internal/platform/respond"
)

// Handler exposes the sign-in endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates an auth HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the auth router. Both endpoints are public.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/email", h.requestCode)
	r.Post("/token", h.exchangeCode)

	return r
}

type requestCodeInput struct {
	Email string `json:"email"`
}

type exchangeCodeInput struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

// requestCode handles POST /auth/email
func (h *Handler) requestCode(writer http.ResponseWriter, request *http.Request) {
	var input requestCodeInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.RequestCode(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Confirmation code sent"})
}

// exchangeCode handles POST /auth/token
func (h *Handler) exchangeCode(writer http.ResponseWriter, request *http.Request) {
	var input exchangeCodeInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := h.service.ExchangeCode(request.Context(), input.Email, input.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, token)
}
