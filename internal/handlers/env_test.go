package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/handlers"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/hash"
	authmw "github.com/dhnshshettigar/sweet-shop-backend/internal/middleware/auth"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/models"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/repo"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/service"
	httpserver "github.com/dhnshshettigar/sweet-shop-backend/internal/transport/http"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recorderPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorderPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, _ := event.(map[string]any)
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: e})
	return nil
}

func (r *recorderPublisher) byType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.Event["type"] == eventType {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Secret []byte
	Events *recorderPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Sweet{}), "failed to migrate tables")

	secret := []byte("test-secret")
	store := repo.New(db)
	events := &recorderPublisher{}

	authSvc := &service.AuthService{Repo: store, JWTSecret: secret, Events: events}
	catalogSvc := &service.CatalogService{Repo: store, Events: events}

	e := echo.New()
	e.HTTPErrorHandler = httpserver.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	httpserver.Register(e, &httpserver.Deps{
		DB:           db,
		AuthHandler:  &handlers.AuthHandler{Svc: authSvc},
		SweetHandler: &handlers.SweetHandler{Svc: catalogSvc},
		AuthMW:       authmw.New(secret),
	})

	return &testEnv{T: t, E: e, DB: db, Secret: secret, Events: events}
}

func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder) map[string]any {
	env.T.Helper()

	var body map[string]any
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (env *testEnv) login(email, password string) string {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code)

	token, _ := env.decode(rec)["access_token"].(string)
	require.NotEmpty(env.T, token)
	return token
}

func (env *testEnv) userToken() string {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "shopper@sweetshop.com",
		"password": "StrongP@ss123",
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code)

	return env.login("shopper@sweetshop.com", "StrongP@ss123")
}

func (env *testEnv) adminToken() string {
	env.T.Helper()

	pwHash, err := hash.HashPassword("AdminP@ss123")
	require.NoError(env.T, err)
	admin := models.User{Email: "admin@sweetshop.com", Password: pwHash, Role: "admin"}
	require.NoError(env.T, env.DB.Create(&admin).Error)

	return env.login("admin@sweetshop.com", "AdminP@ss123")
}
