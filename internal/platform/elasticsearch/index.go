package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// EnsureIndex creates index with the given mapping if it does not exist yet.
func EnsureIndex(ctx context.Context, client *ESClientWrapper, index string, mapping map[string]interface{}, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup").With(zap.String("index_name", index))

	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if index exists", zap.Error(err))
		return fmt.Errorf("error checking if index %s exists: %w", index, err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Debug("Index already exists")
		return nil
	case http.StatusNotFound:
	default:
		log.Error("Unexpected status checking index", zap.String("status", res.Status()))
		return fmt.Errorf("error checking if index %s exists: status %s", index, res.Status())
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("error marshalling mapping for %s: %w", index, err)
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(string(body)),
	}.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating index", zap.Error(err))
		return fmt.Errorf("error creating index %s: %w", index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		log.Error("Failed to create index",
			zap.String("status", createRes.Status()),
			zap.Any("error_details", decodeErrorBody(createRes.Body)),
		)
		return fmt.Errorf("failed to create index %s: status %s", index, createRes.Status())
	}

	log.Info("Index created successfully")
	return nil
}
