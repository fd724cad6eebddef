package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/linkfill/internal/config"
	"github.com/law-makers/linkfill/pkg/models"
)

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNew_ScrapesEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Komoda Hemnes</title></head>
			<body><span class="price">599,00 zł</span></body></html>`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.HTTPTimeout = 5 * time.Second
	cfg.MaxPrice = 500

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	data, err := a.Scraper.Scrape(context.Background(), models.RequestOptions{URL: srv.URL + "/komoda"})
	require.NoError(t, err)

	require.NotNil(t, data.Title)
	assert.Equal(t, "Komoda Hemnes", *data.Title)
	// 599 is above the configured bound
	assert.Nil(t, data.Price)
	assert.Positive(t, a.Uptime())
}
