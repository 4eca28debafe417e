package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactsapi/src/app/http/dto"
	"contactsapi/src/app/http/response"
	"contactsapi/src/app/middleware"
	"contactsapi/src/app/server"
	"contactsapi/src/core/domain"
	"contactsapi/src/infra/config"
	"contactsapi/src/infra/logger"
	"contactsapi/src/infra/repo"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := repo.NewMemoryStore(logger.Discard())
	require.NoError(t, store.SeedAreaCodes(context.Background(), []domain.AreaCode{
		{Code: 11, Region: "São Paulo", State: "SP"},
		{Code: 21, Region: "Rio de Janeiro", State: "RJ"},
	}))

	cfg := &config.Config{
		Log:  config.LogConfig{Level: "error", Format: "json"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	return server.New(cfg, logger.Discard(), store).Router()
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type contactEnvelope struct {
	Data dto.ContactResponse `json:"data"`
}

type contactsEnvelope struct {
	Data []dto.ContactResponse `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createAna(t *testing.T, r http.Handler) dto.ContactResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/v1/contacts", dto.ContactRequest{
		Name: "Ana", Phone: "11987654321", Email: "ana@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[contactEnvelope](t, w).Data
}

func TestHealth(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = do(t, r, http.MethodGet, "/health/detailed", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database"`)
}

func TestCreateContact(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/v1/contacts", dto.ContactRequest{
		Name: "  Ana ", Phone: "11987654321", Email: "ana@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decode[contactEnvelope](t, w).Data
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "987654321", got.Phone)
	assert.Equal(t, 11, got.AreaCodeID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, "/v1/contacts/"+got.ID, w.Header().Get("Location"))
}

func TestCreateContact_ValidationDetails(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/v1/contacts", dto.ContactRequest{Phone: "11123"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[response.Error](t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, []domain.ValidationFailure{
		{Field: domain.FieldName, Message: domain.MsgNameRequired},
		{Field: domain.FieldPhone, Message: domain.MsgPhoneDigits},
		{Field: domain.FieldEmail, Message: domain.MsgEmailRequired},
	}, body.Error.Details)

	list := decode[contactsEnvelope](t, do(t, r, http.MethodGet, "/v1/contacts", nil))
	assert.Empty(t, list.Data)
}

func TestCreateContact_UnknownAreaCode(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/v1/contacts", dto.ContactRequest{
		Name: "Ana", Phone: "99987654321", Email: "ana@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[response.Error](t, w)
	assert.Equal(t, []domain.ValidationFailure{
		{Field: domain.FieldAreaCode, Message: domain.MsgAreaCodeUnknown},
	}, body.Error.Details)
}

func TestCreateContact_MalformedBody(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/contacts", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decode[response.Error](t, w).Error.Code)
}

func TestGetContact(t *testing.T) {
	r := newRouter(t)
	ana := createAna(t, r)

	w := do(t, r, http.MethodGet, "/v1/contacts/"+ana.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ana.ID, decode[contactEnvelope](t, w).Data.ID)

	w = do(t, r, http.MethodGet, "/v1/contacts/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/v1/contacts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateContact(t *testing.T) {
	r := newRouter(t)
	ana := createAna(t, r)

	w := do(t, r, http.MethodPut, "/v1/contacts/"+ana.ID, dto.ContactRequest{
		Name: "Ana Souza", Phone: "2133334444", Email: "ana@example.org",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[contactEnvelope](t, w).Data
	assert.Equal(t, 21, got.AreaCodeID)
	assert.Equal(t, "33334444", got.Phone)

	w = do(t, r, http.MethodPut, "/v1/contacts/"+ana.ID, dto.ContactRequest{
		Name: "Ana", Phone: "21333", Email: "ana@example.org",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored := decode[contactEnvelope](t, do(t, r, http.MethodGet, "/v1/contacts/"+ana.ID, nil)).Data
	assert.Equal(t, "Ana Souza", stored.Name)
	assert.Equal(t, "33334444", stored.Phone)
}

func TestDeleteContact(t *testing.T) {
	r := newRouter(t)
	ana := createAna(t, r)

	w := do(t, r, http.MethodDelete, "/v1/contacts/"+ana.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodDelete, "/v1/contacts/"+ana.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAreaCodeRoutes(t *testing.T) {
	r := newRouter(t)
	createAna(t, r)

	w := do(t, r, http.MethodGet, "/v1/area-codes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rio de Janeiro")

	w = do(t, r, http.MethodGet, "/v1/area-codes/11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"SP"`)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/v1/area-codes/42", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/v1/area-codes/abc", nil).Code)

	w = do(t, r, http.MethodGet, "/v1/area-codes/11/contacts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	contacts := decode[contactsEnvelope](t, w).Data
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ana", contacts[0].Name)

	w = do(t, r, http.MethodGet, "/v1/area-codes/21/contacts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[contactsEnvelope](t, w).Data)
}

func TestNoRoute(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/v2/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[response.Error](t, w).Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/contacts", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMalformedPathParams(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		path  string
		field string
	}{
		{"/v1/contacts/not-a-uuid", "id"},
		{"/v1/area-codes/abc", "code"},
		{"/v1/area-codes/100/contacts", "code"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			body := decode[response.Error](t, w)
			assert.Equal(t, response.CodeValidation, body.Error.Code)
			assert.Equal(t, tt.field, body.Error.Field)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}
