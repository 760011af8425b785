package internal

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// SearchAdmin manages the OpenSearch index backing the memory server's
// vector store: lifecycle (create/delete/reset) and status probes.
type SearchAdmin struct {
	client       *opensearchapi.Client
	embeddingDim int
}

func NewSearchAdmin(cfg OpenSearchConfig) (*SearchAdmin, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: cfg.Addresses,
			Username:  cfg.Username,
			Password:  cfg.Password,
			Transport: transport,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create OpenSearch client: %w", err)
	}

	return &SearchAdmin{client: client, embeddingDim: cfg.EmbeddingDim}, nil
}

// ClusterStatus reports whether the cluster answered and its version.
type ClusterStatus struct {
	Online  bool
	Version string
}

// Status probes the cluster root endpoint.
func (a *SearchAdmin) Status(ctx context.Context) ClusterStatus {
	info, err := a.client.Info(ctx, nil)
	if err != nil {
		return ClusterStatus{}
	}
	return ClusterStatus{Online: true, Version: info.Version.Number}
}

// Count returns the number of documents in index.
func (a *SearchAdmin) Count(ctx context.Context, index string) (int, error) {
	query := map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	}
	body, _ := json.Marshal(query)

	resp, err := a.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(body),
		Params: opensearchapi.SearchParams{
			Size:           opensearchapi.ToPointer(0),
			TrackTotalHits: true,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}

	return resp.Hits.Total.Value, nil
}

// Exists reports whether index exists.
func (a *SearchAdmin) Exists(ctx context.Context, index string) bool {
	_, err := a.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{Indices: []string{index}})
	return err == nil
}

// Create creates index with the k-NN mapping the memory server writes into.
func (a *SearchAdmin) Create(ctx context.Context, index string) error {
	body, err := json.Marshal(a.indexMapping())
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	_, err = a.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: index,
		Body:  bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Delete removes index. A missing index is not an error.
func (a *SearchAdmin) Delete(ctx context.Context, index string) error {
	_, err := a.client.Indices.Delete(ctx, opensearchapi.IndicesDeleteReq{
		Indices: []string{index},
		Params: opensearchapi.IndicesDeleteParams{
			IgnoreUnavailable: opensearchapi.ToPointer(true),
		},
	})
	if err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

// Reset deletes and recreates index.
func (a *SearchAdmin) Reset(ctx context.Context, index string) error {
	if err := a.Delete(ctx, index); err != nil {
		return err
	}
	return a.Create(ctx, index)
}

func (a *SearchAdmin) indexMapping() map[string]any {
	knnVector := map[string]any{
		"type":      "knn_vector",
		"dimension": a.embeddingDim,
		"method": map[string]any{
			"name":       "hnsw",
			"space_type": "cosinesimil",
		},
	}

	return map[string]any{
		"settings": map[string]any{
			"index": map[string]any{
				"knn":                      true,
				"knn.algo_param.ef_search": 100,
				"number_of_shards":         1,
				"number_of_replicas":       0,
			},
		},
		"mappings": map[string]any{
			"dynamic": true,
			"properties": map[string]any{
				"embedding":       knnVector,
				"topic_embedding": knnVector,
				// shared fields
				"id":         map[string]any{"type": "keyword"},
				"type":       map[string]any{"type": "keyword"},
				"agent_id":   map[string]any{"type": "keyword"},
				"user_id":    map[string]any{"type": "keyword"},
				"session_id": map[string]any{"type": "keyword"},
				"status":     map[string]any{"type": "keyword"},
				// episode fields
				"role":      map[string]any{"type": "keyword"},
				"name":      map[string]any{"type": "text"},
				"content":   map[string]any{"type": "text", "analyzer": "standard"},
				"topic":     map[string]any{"type": "keyword"},
				"timestamp": map[string]any{"type": "date"},
				// entity fields
				"entity_type": map[string]any{"type": "keyword"},
				"description": map[string]any{"type": "text"},
				// edge fields
				"source_id": map[string]any{"type": "keyword"},
				"target_id": map[string]any{"type": "keyword"},
				"relation":  map[string]any{"type": "keyword"},
				"fact":      map[string]any{"type": "text"},
				// summary fields
				"episode_ids": map[string]any{"type": "keyword"},
				// bookkeeping
				"created_at": map[string]any{"type": "date"},
				"updated_at": map[string]any{"type": "date"},
			},
		},
	}
}
