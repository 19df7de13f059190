package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs
}

func TestDisabledIndexIsNoop(t *testing.T) {
	x := NewProfileIndex(nil, "profiles")
	ctx := context.Background()

	assert.False(t, x.Enabled())
	assert.NoError(t, x.Index(ctx, &entity.Profile{UserID: "u1"}))
	assert.NoError(t, x.Delete(ctx, "u1"))
	docs, err := x.Search(ctx, "go", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIndexSendsDocument(t *testing.T) {
	es, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	x := NewProfileIndex(es, "profiles")

	p := &entity.Profile{
		UserID:    "u1",
		User:      entity.ProfileOwner{ID: "u1", Name: "Ada"},
		Status:    "Student",
		Skills:    []string{"go", "sql"},
		UpdatedAt: time.Now(),
	}
	require.NoError(t, x.Index(context.Background(), p))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/profiles/_doc/u1", got.path)

	var doc ProfileDoc
	require.NoError(t, json.Unmarshal([]byte(got.body), &doc))
	assert.Equal(t, "Ada", doc.Name)
	assert.Equal(t, []string{"go", "sql"}, doc.Skills)
}

func TestDeleteIgnoresMissing(t *testing.T) {
	es, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, NewProfileIndex(es, "profiles").Delete(context.Background(), "u1"))
}

func TestSearchParsesHits(t *testing.T) {
	es, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"u1","_source":{"user_id":"u1","name":"Ada","status":"Student","skills":["go"]}}]}}`))
	})
	docs, err := NewProfileIndex(es, "profiles").Search(context.Background(), "go", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ada", docs[0].Name)

	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/profiles/_search"))
	assert.Contains(t, (*reqs)[0].body, `"size":10`)
}
