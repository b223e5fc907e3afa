package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/models"
)

const DefaultIndex = "sweets"

type Client struct {
	ES    *elasticsearch.Client
	Index string
}

func NewClient(url, user, password, index string) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	return &Client{ES: es, Index: index}, nil
}

func (c *Client) IndexSweet(ctx context.Context, sweet *models.Sweet) error {
	data, err := json.Marshal(sweet)
	if err != nil {
		return fmt.Errorf("marshal sweet: %w", err)
	}

	res, err := c.ES.Index(c.Index, bytes.NewReader(data),
		c.ES.Index.WithDocumentID(strconv.FormatUint(uint64(sweet.ID), 10)),
		c.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index sweet: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index sweet: %s", res.Status())
	}
	return nil
}

func (c *Client) SearchSweets(ctx context.Context, query string) (int64, []models.Sweet, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "category"},
				"fuzziness": "AUTO",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := c.ES.Search(
		c.ES.Search.WithContext(ctx),
		c.ES.Search.WithIndex(c.Index),
		c.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Sweet `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode response: %w", err)
	}

	sweets := make([]models.Sweet, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		sweets[i] = hit.Source
	}
	return r.Hits.Total.Value, sweets, nil
}
