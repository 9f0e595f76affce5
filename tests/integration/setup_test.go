package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/councilos/councilos/internal/auth"
	"github.com/councilos/councilos/internal/council"
	"github.com/councilos/councilos/internal/gateway"
	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/internal/metrics"
	"github.com/councilos/councilos/internal/orchestration"
	"github.com/councilos/councilos/internal/store"
	"github.com/councilos/councilos/tests/helpers"
)

// queueInvoker replays scripted model responses in order, falling back to the
// last entry once the script runs out.
type queueInvoker struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (q *queueInvoker) Invoke(_ context.Context, _ llm.Request) (*llm.Response, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.calls
	if i >= len(q.responses) {
		i = len(q.responses) - 1
	}
	q.calls++
	return &llm.Response{Content: q.responses[i]}, nil
}

// testServer wires the full HTTP stack over the test database with scripted
// model invokers instead of real provider calls.
type testServer struct {
	router  *gin.Engine
	service *orchestration.Service
	db      *helpers.TestDatabase
}

func newTestServer(t *testing.T, testDB *helpers.TestDatabase, registry *llm.Registry) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blueprints := store.NewBlueprintStore(testDB.Pool)
	runs := store.NewRunStore(testDB.Pool)
	liveStates := store.NewRunStateStore()
	documents := store.NewDocumentStore(testDB.Pool)

	runMetrics, err := metrics.NewRunMetrics()
	require.NoError(t, err)

	service, err := orchestration.NewService(orchestration.Config{
		Blueprints: blueprints,
		Runs:       runs,
		LiveStates: liveStates,
		Documents:  documents,
		Registry:   registry,
		Resolver:   nil,
		Sessions:   council.NewSessionManager(),
		Metrics:    runMetrics,
		Workers:    4,
	})
	require.NoError(t, err)
	t.Cleanup(service.Close)

	jwtManager, err := auth.NewJWTManager()
	require.NoError(t, err)

	handler := gateway.NewHandler(service, blueprints, runs, jwtManager, testDB.Pool)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/login", handler.Login)

	protected := api.Group("")
	protected.Use(auth.RequireAuth(jwtManager))
	protected.POST("/councils", handler.CreateBlueprint)
	protected.GET("/councils", handler.ListBlueprints)
	protected.GET("/councils/:id", handler.GetBlueprint)
	protected.PUT("/councils/:id", handler.UpdateBlueprint)
	protected.DELETE("/councils/:id", handler.DeleteBlueprint)
	protected.POST("/councils/:id/run", handler.StartRun)
	protected.GET("/runs", handler.ListRuns)
	protected.GET("/runs/:run_id", handler.GetRun)
	protected.POST("/runs/:run_id/approve", handler.ApproveRun)
	protected.GET("/runs/:run_id/state", handler.GetRunCheckpoint)

	return &testServer{router: router, service: service, db: testDB}
}

// login creates a user and returns a bearer token for it.
func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	s.db.CreateTestUser(t, email, password)

	w := s.request(t, http.MethodPost, "/api/auth/login", "", helpers.CreateTestLoginRequest(email, password))
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// request performs an HTTP call against the router. A non-nil body is JSON
// encoded; a non-empty token is sent as a bearer credential.
func (s *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}
