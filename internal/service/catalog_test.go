package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/models"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/repo"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/search"
)

type failingPublisher struct{}

func (failingPublisher) PublishEvent(context.Context, string, string, any) error {
	return errors.New("broker unreachable")
}

func newCatalog(t *testing.T) *CatalogService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Sweet{}), "failed to migrate tables")
	return &CatalogService{Repo: repo.New(db)}
}

func TestCreateAndListAll(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Sweet{Name: "Gummy Bears", Category: "Gummy", Price: 1.99, Quantity: 100})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = svc.Create(ctx, &models.Sweet{Name: "Gummy Bears", Category: "Gummy", Price: 2.50, Quantity: 10})
	require.ErrorIs(t, err, repo.ErrSweetNameTaken)

	sweets, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sweets, 1)
	require.Equal(t, "Gummy Bears", sweets[0].Name)
}

func TestCreateSurvivesIndexFailure(t *testing.T) {
	svc := newCatalog(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{ts.URL}})
	require.NoError(t, err)
	svc.Search = &search.Client{ES: es, Index: search.DefaultIndex}

	// Indexing is best effort: an ES outage must not fail the create.
	created, err := svc.Create(context.Background(), &models.Sweet{Name: "Dark Chocolate Bar", Category: "Chocolate", Price: 3.50, Quantity: 20})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	svc := newCatalog(t)
	svc.Events = failingPublisher{}

	// Publishing is best effort: a broker outage must not fail the create.
	created, err := svc.Create(context.Background(), &models.Sweet{Name: "Caramel Fudge", Category: "Fudge", Price: 2.75, Quantity: 15})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	sweets, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sweets, 1)
}

func TestSearchByNameUnavailable(t *testing.T) {
	svc := newCatalog(t)

	_, _, err := svc.SearchByName(context.Background(), "gummy")
	require.ErrorIs(t, err, ErrSearchUnavailable)
}
