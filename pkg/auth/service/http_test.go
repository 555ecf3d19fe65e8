package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/user"
)

type mockService struct {
	SignupFunc func(ctx context.Context, req *user.SignupRequest) (*user.AuthResponse, error)
	LoginFunc  func(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
}

func (m *mockService) Signup(ctx context.Context, req *user.SignupRequest) (*user.AuthResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return &user.AuthResponse{Token: "tok"}, nil
}

func (m *mockService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &user.AuthResponse{Token: "tok"}, nil
}

func newAuthTestServer(svc Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, zap.NewNop())
	return r
}

func TestSignupHTTP_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	handler := newAuthTestServer(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var got struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "invalid JSON", got.Error)
	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestSignupHTTP_ValidationFailure_ReturnsBadRequest(t *testing.T) {
	handler := newAuthTestServer(&mockService{})

	// Username too short, password too short, bad email.
	body := `{"username":"ab","email":"not-an-email","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupHTTP_Created(t *testing.T) {
	svc := &mockService{
		SignupFunc: func(_ context.Context, req *user.SignupRequest) (*user.AuthResponse, error) {
			assert.Equal(t, "alice", req.Username)
			return &user.AuthResponse{
				Token:  "tok",
				User:   user.Profile{ID: 1, Username: "alice"},
				Points: 10000,
			}, nil
		},
	}
	handler := newAuthTestServer(svc)

	body := `{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got user.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, int64(10000), got.Points)
}

func TestLoginHTTP_OK(t *testing.T) {
	handler := newAuthTestServer(&mockService{})

	body := `{"username":"alice","password":"hunter2hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
