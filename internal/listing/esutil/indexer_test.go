package esutil

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/listing"
	platformES "realty_bureau_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Lines  []string
}

func fakeElasticsearch(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*platformES.ESClientWrapper, func() []recordedRequest) {
	t.Helper()
	var (
		mu  sync.Mutex
		got []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		scanner := bufio.NewScanner(r.Body)
		scanner.Buffer(make([]byte, 1<<20), 1<<20)
		for scanner.Scan() {
			rec.Lines = append(rec.Lines, scanner.Text())
		}
		mu.Lock()
		got = append(got, rec)
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	requests := func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), got...)
	}
	return &platformES.ESClientWrapper{Client: client}, requests
}

func samplePlot() listing.Listing {
	l := listing.Listing{
		Title:       "Lakeside Plot",
		Slug:        "lakeside-plot",
		Description: "Near the backwaters",
		PlotSize:    listing.PlotSize{Value: 10, Unit: listing.UnitCent},
		Price:       250000,
		Location:    listing.Location{City: "Kochi"},
		Images:      []listing.Image{{URL: "https://cdn.example/a.jpg"}},
		Category:    listing.CategoryResidential,
		Status:      listing.StatusAvailable,
		Approved:    true,
	}
	l.ID = uuid.New()
	l.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	l.UpdatedAt = l.CreatedAt
	return l
}

func TestPlotToElasticsearchDoc(t *testing.T) {
	l := samplePlot()
	raw, err := PlotToElasticsearchDoc(&l)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, l.ID.String(), doc["id"])
	assert.Equal(t, "lakeside-plot", doc["slug"])
	assert.Equal(t, "cent", doc["plot_size_unit"])
	assert.Equal(t, "Kochi", doc["city"])
	assert.Equal(t, true, doc["approved"])
	assert.Equal(t, []interface{}{"https://cdn.example/a.jpg"}, doc["image_urls"])
	assert.Equal(t, []interface{}{}, doc["video_urls"])
	assert.Equal(t, "2024-01-02T03:04:05Z", doc["created_at"])

	_, err = PlotToElasticsearchDoc(nil)
	assert.Error(t, err)
}

func TestNewSearchIndexer_DisabledWithoutClient(t *testing.T) {
	idx := NewSearchIndexer(nil, &config.Config{}, zap.NewNop())
	assert.IsType(t, listing.NoopIndexer{}, idx)
}

func TestIndexer_IndexAndRemove(t *testing.T) {
	client, requests := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	idx := NewSearchIndexer(client, &config.Config{ElasticsearchPlotsIndex: "plots"}, zap.NewNop())

	l := samplePlot()
	require.NoError(t, idx.Index(context.Background(), &l))
	require.NoError(t, idx.Remove(context.Background(), l.ID), "a missing document is not an error")

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, "/plots/_doc/"+l.ID.String(), got[0].Path)
	assert.Equal(t, http.MethodDelete, got[1].Method)
}

func TestIndexer_BulkCountsItemFailures(t *testing.T) {
	a, b := samplePlot(), samplePlot()
	client, requests := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":true,"items":[` +
			`{"index":{"_id":"` + a.ID.String() + `","status":201}},` +
			`{"index":{"_id":"` + b.ID.String() + `","status":400,"error":{"type":"mapper_parsing_exception"}}}]}`))
	})
	idx := NewSearchIndexer(client, &config.Config{ElasticsearchPlotsIndex: "plots"}, zap.NewNop())

	n, err := idx.Bulk(context.Background(), []listing.Listing{a, b})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, "/_bulk", got[0].Path)
	lines := got[0].Lines
	require.Len(t, lines, 4, "one action and one source line per plot")
	assert.True(t, strings.Contains(lines[0], `"_index":"plots"`))
	assert.True(t, strings.Contains(lines[2], b.ID.String()))
}

func TestIndexer_BulkEmpty(t *testing.T) {
	client, requests := fakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {})
	idx := NewSearchIndexer(client, &config.Config{}, zap.NewNop())

	n, err := idx.Bulk(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, requests())
}
