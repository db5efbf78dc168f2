package jobs

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/shelterstock/shelterstock/internal/rbac"
	"github.com/shelterstock/shelterstock/internal/shared"
)

type stubInspector struct {
	queues []string
	info   *asynq.QueueInfo
	err    error
}

func (s stubInspector) Queues() ([]string, error) { return s.queues, s.err }

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, nil }

type tokens map[string]shared.Identity

func (t tokens) Verify(token string) (shared.Identity, error) {
	id, ok := t[token]
	if !ok {
		return shared.Identity{}, shared.ErrMalformedToken
	}
	return id, nil
}

func healthRequest(inspector QueueInspector, token string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	guard := rbac.Middleware{Verifier: tokens{"admin": {AccountID: 1, IsAdmin: true}, "member": {AccountID: 2}}}
	NewHandler(inspector, nil, guard).MountRoutes(r)
	req := httptest.NewRequest(http.MethodGet, "/jobs/health", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	return res
}

func TestJobsHealthRequiresAdmin(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, healthRequest(nil, "").Code)
	require.Equal(t, http.StatusForbidden, healthRequest(nil, "member").Code)
}

func TestJobsHealthReportsQueue(t *testing.T) {
	res := healthRequest(stubInspector{
		queues: []string{QueueDefault},
		info:   &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Retry: 1},
	}, "admin")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"queue":"default","pending":3,"active":0,"scheduled":0,"retry":1,"archived":0,"failedToday":0,"paused":false}`, res.Body.String())
}

func TestJobsHealthBeforeFirstEnqueue(t *testing.T) {
	res := healthRequest(stubInspector{}, "admin")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"pending":0`)
}

func TestJobsHealthRedisDown(t *testing.T) {
	res := healthRequest(stubInspector{err: errors.New("dial tcp: refused")}, "admin")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
}
