package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/primeiro-admin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestHandlerCreateFirstAdmin(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(nil, newTestCoordinator(newMemoryRepo())).MountRoutes(r)

	body := `{"nomeUsuario":"Admin","email":"admin@x.com","senha":"Secret123","abrigo":{"nome":"Casa","endereco":"Rua 1"}}`
	res := serve(t, r, body)
	require.Equal(t, http.StatusCreated, res.Code)
	var created response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	require.NotZero(t, created.ID)

	res = serve(t, r, strings.Replace(body, "admin@x.com", "two@x.com", 1))
	require.Equal(t, http.StatusConflict, res.Code)
	require.Contains(t, res.Body.String(), "an administrator already exists")
}

func TestHandlerValidatesNestedShelter(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(nil, newTestCoordinator(newMemoryRepo())).MountRoutes(r)

	res := serve(t, r, `{"nomeUsuario":"Admin","email":"admin@x.com","senha":"Secret123","abrigo":{"nome":""}}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = serve(t, r, `{"nomeUsuario":"Admin","email":"admin@x.com","senha":"short","abrigoId":1}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), "senha")
}
