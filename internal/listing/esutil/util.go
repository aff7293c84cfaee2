package esutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"realty_bureau_backend/internal/listing"
)

// PlotsIndexMapping is the explicit mapping of the plots index.
var PlotsIndexMapping = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":               map[string]string{"type": "keyword"},
			"slug":             map[string]string{"type": "keyword"},
			"title":            map[string]string{"type": "text"},
			"description":      map[string]string{"type": "text"},
			"plot_size_value":  map[string]string{"type": "double"},
			"plot_size_unit":   map[string]string{"type": "keyword"},
			"price":            map[string]string{"type": "double"},
			"city":             map[string]string{"type": "keyword", "normalizer": "lowercase"},
			"district":         map[string]string{"type": "keyword"},
			"state":            map[string]string{"type": "keyword"},
			"pincode":          map[string]string{"type": "keyword"},
			"address":          map[string]string{"type": "text"},
			"category":         map[string]string{"type": "keyword"},
			"status":           map[string]string{"type": "keyword"},
			"approved":         map[string]string{"type": "boolean"},
			"image_urls":       map[string]string{"type": "keyword", "index": "false"},
			"video_urls":       map[string]string{"type": "keyword", "index": "false"},
			"created_at":       map[string]string{"type": "date"},
			"updated_at":       map[string]string{"type": "date"},
		},
	},
}

// PlotToElasticsearchDoc converts a plot to its Elasticsearch document.
func PlotToElasticsearchDoc(l *listing.Listing) ([]byte, error) {
	if l == nil {
		return nil, errors.New("plot cannot be nil")
	}

	imageURLs := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		imageURLs = append(imageURLs, img.URL)
	}
	videoURLs := make([]string, 0, len(l.Videos))
	for _, v := range l.Videos {
		videoURLs = append(videoURLs, v.URL)
	}

	doc := map[string]interface{}{
		"id":              l.ID.String(),
		"slug":            l.Slug,
		"title":           l.Title,
		"description":     l.Description,
		"plot_size_value": l.PlotSize.Value,
		"plot_size_unit":  string(l.PlotSize.Unit),
		"price":           l.Price,
		"address":         l.Location.Address,
		"city":            l.Location.City,
		"district":        l.Location.District,
		"state":           l.Location.State,
		"pincode":         l.Location.Pincode,
		"category":        string(l.Category),
		"status":          string(l.Status),
		"approved":        l.Approved,
		"image_urls":      imageURLs,
		"video_urls":      videoURLs,
		"created_at":      l.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":      l.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error marshalling plot to JSON for ES: %w", err)
	}
	return docBytes, nil
}
