package esutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/listing"
	platformES "realty_bureau_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Indexer mirrors plots into an Elasticsearch index.
type Indexer struct {
	client *platformES.ESClientWrapper
	index  string
	logger *zap.Logger
}

// NewSearchIndexer returns an Elasticsearch indexer, or listing.NoopIndexer
// when no client is configured.
func NewSearchIndexer(client *platformES.ESClientWrapper, cfg *config.Config, logger *zap.Logger) listing.SearchIndexer {
	if client == nil || client.Client == nil {
		return listing.NoopIndexer{}
	}
	return &Indexer{client: client, index: cfg.ElasticsearchPlotsIndex, logger: logger.Named("plot_indexer")}
}

// EnsureIndex creates the plots index with its mapping when missing.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	return platformES.EnsureIndex(ctx, i.client, i.index, PlotsIndexMapping, i.logger)
}

// Index writes one plot document.
func (i *Indexer) Index(ctx context.Context, l *listing.Listing) error {
	doc, err := PlotToElasticsearchDoc(l)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: l.ID.String(),
		Body:       bytes.NewReader(doc),
	}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("index plot %s: %w", l.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index plot %s: status %s", l.ID, res.Status())
	}
	return nil
}

// Remove deletes one plot document. A missing document is not an error.
func (i *Indexer) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := esapi.DeleteRequest{Index: i.index, DocumentID: id.String()}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("remove plot %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove plot %s: status %s", id, res.Status())
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string                 `json:"_id"`
			Status int                    `json:"status"`
			Error  map[string]interface{} `json:"error,omitempty"`
		} `json:"index"`
	} `json:"items"`
}

// Bulk indexes listings in one request and returns how many were accepted.
// Item-level failures are logged and not returned as an error.
func (i *Indexer) Bulk(ctx context.Context, listings []listing.Listing) (int, error) {
	var body bytes.Buffer
	queued := 0
	for idx := range listings {
		l := &listings[idx]
		doc, err := PlotToElasticsearchDoc(l)
		if err != nil {
			i.logger.Error("Failed to convert plot to Elasticsearch document", zap.String("plotID", l.ID.String()), zap.Error(err))
			continue
		}
		fmt.Fprintf(&body, `{"index":{"_index":%q,"_id":%q}}`+"\n", i.index, l.ID.String())
		body.Write(doc)
		body.WriteByte('\n')
		queued++
	}
	if queued == 0 {
		return 0, nil
	}

	res, err := esapi.BulkRequest{Body: &body}.Do(ctx, i.client.Client)
	if err != nil {
		return 0, fmt.Errorf("bulk index plots: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("bulk index plots: status %s", res.Status())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}
	synced := queued
	if parsed.Errors {
		for _, item := range parsed.Items {
			if item.Index.Error != nil {
				i.logger.Error("Failed to index plot in bulk batch",
					zap.String("plotID", item.Index.ID),
					zap.Any("error", item.Index.Error),
					zap.Int("status", item.Index.Status),
				)
				synced--
			}
		}
	}
	return synced, nil
}
