package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/gocql/gocql"

	"boutique/internal/models"
)

const DefaultIndex = "products"

type Elastic struct {
	es    *elasticsearch.Client
	index string
}

func NewElastic(es *elasticsearch.Client, index string) *Elastic {
	if index == "" {
		index = DefaultIndex
	}
	return &Elastic{es: es, index: index}
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "title":       {"type": "text"},
      "description": {"type": "text"},
      "price":       {"type": "keyword"},
      "imageUrl":    {"type": "keyword", "index": false},
      "userId":      {"type": "keyword"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{e.index}}.Do(ctx, e.es)
	if err != nil {
		return fmt.Errorf("check index %s: %w", e.index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: e.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, e.es)
	if err != nil {
		return fmt.Errorf("create index %s: %w", e.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", e.index, res.String())
	}
	log.Printf("✅ Elasticsearch index %s created", e.index)
	return nil
}

func (e *Elastic) IndexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	res, err := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}.Do(ctx, e.es)
	if err != nil {
		return fmt.Errorf("index product %s: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index product %s: %s", p.ID, res.String())
	}
	return nil
}

func (e *Elastic) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	res, err := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: id.String(),
		Refresh:    "true",
	}.Do(ctx, e.es)
	if err != nil {
		return fmt.Errorf("unindex product %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("unindex product %s: %s", id, res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *Elastic) Search(ctx context.Context, query string) ([]models.Product, error) {
	var q map[string]any
	if strings.TrimSpace(query) == "" {
		q = map[string]any{"query": map[string]any{"match_all": map[string]any{}}}
	} else {
		q = map[string]any{
			"query": map[string]any{
				"multi_match": map[string]any{
					"query":     query,
					"fields":    []string{"title^2", "description"},
					"fuzziness": "AUTO",
				},
			},
		}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  &buf,
	}.Do(ctx, e.es)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", e.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", e.index, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]models.Product, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		results = append(results, h.Source)
	}
	return results, nil
}
