package services

import (
	"agenthub/internal/constants"
	"agenthub/internal/repositories"
	"agenthub/pkg/redis"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const previewPage = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta name="description" content="Plain description">
<meta name="twitter:description" content="Twitter description">
<meta property="og:title" content="  Open Graph title ">
<meta name="twitter:image" content="/img/card.png">
</head><body>hi</body></html>`

func newTestPreviewService(t *testing.T, handler http.HandlerFunc) (LinkPreviewService, *httptest.Server, *int32) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	cache := repositories.NewLinkPreviewRepository(redis.NewMemoryRepositories())
	return NewLinkPreviewService(cache, server.Client(), time.Minute), server, &hits
}

func TestLinkPreviewExtractsMetadata(t *testing.T) {
	svc, server, hits := newTestPreviewService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.LinkPreviewUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(previewPage))
	})
	ctx := context.Background()

	preview, err := svc.Preview(ctx, server.URL+"/post")
	require.NoError(t, err)
	assert.Equal(t, "Open Graph title", preview.Title)
	require.NotNil(t, preview.Description)
	assert.Equal(t, "Plain description", *preview.Description)
	require.NotNil(t, preview.Image)
	assert.Equal(t, server.URL+"/img/card.png", *preview.Image)

	_, err = svc.Preview(ctx, server.URL+"/post")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits), "second lookup is served from cache")
}

func TestLinkPreviewFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("twitter card as property", func(t *testing.T) {
		svc, server, _ := newTestPreviewService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head>
<meta property="twitter:title" content="Card title">
<meta name="twitter:description" content="Named card description">
<meta property="twitter:image" content="https://cdn.example.com/card.png">
</head></html>`))
		})

		preview, err := svc.Preview(ctx, server.URL+"/card")
		require.NoError(t, err)
		assert.Equal(t, "Card title", preview.Title)
		require.NotNil(t, preview.Description)
		assert.Equal(t, "Named card description", *preview.Description)
		require.NotNil(t, preview.Image)
		assert.Equal(t, "https://cdn.example.com/card.png", *preview.Image)
	})

	t.Run("title tag then url", func(t *testing.T) {
		svc, server, _ := newTestPreviewService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			if r.URL.Path == "/titled" {
				w.Write([]byte(`<html><head><title> Just a title </title></head></html>`))
				return
			}
			w.Write([]byte(`<html><body>no head</body></html>`))
		})

		preview, err := svc.Preview(ctx, server.URL+"/titled")
		require.NoError(t, err)
		assert.Equal(t, "Just a title", preview.Title)
		assert.Nil(t, preview.Description)
		assert.Nil(t, preview.Image)

		preview, err = svc.Preview(ctx, server.URL+"/bare")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/bare", preview.Title)
	})

	t.Run("non html resource", func(t *testing.T) {
		svc, server, _ := newTestPreviewService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF"))
		})
		preview, err := svc.Preview(ctx, server.URL+"/doc.pdf")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/doc.pdf", preview.Title)
		assert.Equal(t, constants.LinkPreviewNonHTMLDescription, *preview.Description)
		assert.Nil(t, preview.Image)
	})
}

func TestLinkPreviewErrors(t *testing.T) {
	ctx := context.Background()
	svc, server, hits := newTestPreviewService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := svc.Preview(ctx, "")
	assertHTTPError(t, err, http.StatusBadRequest, "URL is required")

	_, err = svc.Preview(ctx, "javascript:alert(1)")
	assertHTTPError(t, err, http.StatusBadRequest, "invalid URL")
	assert.Zero(t, atomic.LoadInt32(hits))

	_, err = svc.Preview(ctx, server.URL+"/missing")
	assertHTTPError(t, err, http.StatusNotFound, "Failed to fetch the URL: Not Found")

	server.Close()
	_, err = svc.Preview(ctx, server.URL+"/gone")
	assertHTTPError(t, err, http.StatusInternalServerError, "Failed to fetch link preview")
}
