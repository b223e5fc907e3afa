package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/events"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/logging"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/models"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/repo"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/search"
)

var ErrSearchUnavailable = errors.New("search is not configured")

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Search is nil when Elasticsearch is not configured; creates then
	// skip indexing and SearchByName reports ErrSearchUnavailable.
	Search *search.Client
}

// ListAll returns every stored sweet, unfiltered and unpaginated. The
// catalog is assumed small.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Sweet, error) {
	return s.Repo.ListSweets(ctx)
}

func (s *CatalogService) Create(ctx context.Context, sweet *models.Sweet) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if err := s.Repo.CreateSweet(ctx, sweet); err != nil {
		if errors.Is(err, repo.ErrSweetNameTaken) {
			l.Warn("create_conflict", "name", sweet.Name)
		} else {
			l.Error("create_failed", "error", err)
		}
		return nil, err
	}

	if s.Search != nil {
		if err := s.Search.IndexSweet(ctx, sweet); err != nil {
			l.Warn("index_failed", "sweet_id", sweet.ID, "error", err)
		}
	}

	if s.Events != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":     "sweet_created",
			"sweet_id": sweet.ID,
			"name":     sweet.Name,
		}
		if err := s.Events.PublishEvent(pubCtx, events.TopicSweetEvents, fmt.Sprint(sweet.ID), event); err != nil {
			l.Error("event_publish_failed", "topic", events.TopicSweetEvents, "error", err)
		}
	}

	l.Info("create_success", "sweet_id", sweet.ID, "name", sweet.Name)
	return sweet, nil
}

func (s *CatalogService) SearchByName(ctx context.Context, query string) (int64, []models.Sweet, error) {
	if s.Search == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return s.Search.SearchSweets(ctx, query)
}
