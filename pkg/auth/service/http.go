package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/user"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers signup and login endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/signup", apphttp.HandleError(h.signup))
	r.Post("/login", apphttp.HandleError(h.login))
}

func (h *HTTP) signup(w http.ResponseWriter, r *http.Request) error {
	var req user.SignupRequest
	if err := apphttp.DecodeAndValidate(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) login(w http.ResponseWriter, r *http.Request) error {
	var req user.LoginRequest
	if err := apphttp.DecodeAndValidate(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}
