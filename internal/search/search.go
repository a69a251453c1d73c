package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/kapilraj/pos-backend/internal/models"
)

var ErrUnavailable = errors.New("search is not configured")

// Index maintains and queries the item search index. The index is a derived
// read model: write failures are reported but must never fail catalog writes.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewIndex(es *elasticsearch.Client, name string) *Index {
	return &Index{ES: es, Name: name}
}

func (ix *Index) enabled() bool {
	return ix != nil && ix.ES != nil
}

func (ix *Index) IndexItem(ctx context.Context, item models.Item) error {
	if !ix.enabled() {
		return nil
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}
	res, err := ix.ES.Index(
		ix.Name,
		bytes.NewReader(doc),
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(item.ItemID),
	)
	if err != nil {
		return fmt.Errorf("index item %s: %w", item.ItemID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index item %s: %s", item.ItemID, res.Status())
	}
	return nil
}

func (ix *Index) DeleteItem(ctx context.Context, itemID string) error {
	if !ix.enabled() {
		return nil
	}
	res, err := ix.ES.Delete(ix.Name, itemID, ix.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("deindex item %s: %w", itemID, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deindex item %s: %s", itemID, res.Status())
	}
	return nil
}

func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Item, error) {
	if !ix.enabled() {
		return 0, nil, ErrUnavailable
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search %q: %s", query, res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}

// NormalizeQuery trims the raw user query; ES handles the rest.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}
