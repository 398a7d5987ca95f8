package imagesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory_backend/internal/feature/inventory/domain"
)

func testConfig(baseURL string) Config {
	return Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

func TestNewClient_MissingConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing api key", cfg: Config{BaseURL: "https://search.test"}},
		{name: "missing base url", cfg: Config{APIKey: "test-key"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, err := NewClient(tc.cfg, nil, nil)

			require.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Nil(t, client)
		})
	}
}

func TestClient_SearchImageURLs_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// リクエストパラメータを検証
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "home", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"results": [
				{"id": "a1", "image_url": "https://images.test/a1.jpg"},
				{"id": "a2", "image_url": "https://images.test/a2.jpg"},
				{"id": "a3", "image_url": ""}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), server.Client(), nil)
	require.NoError(t, err)

	urls, err := client.SearchImageURLs(context.Background(), "home", 2)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://images.test/a1.jpg",
		"https://images.test/a2.jpg",
	}, urls)
}

func TestClient_SearchImageURLs_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error", "message": "quota exceeded"}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), server.Client(), nil)
	require.NoError(t, err)

	urls, err := client.SearchImageURLs(context.Background(), "home", 5)

	require.ErrorIs(t, err, domain.ErrAcquisition)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Nil(t, urls)
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	imageBytes := []byte("fake-jpeg-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			_, _ = w.Write(imageBytes)
		case "/empty.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), server.Client(), nil)
	require.NoError(t, err)

	t.Run("success: returns image bytes", func(t *testing.T) {
		data, err := client.Fetch(context.Background(), server.URL+"/ok.jpg")

		require.NoError(t, err)
		assert.Equal(t, imageBytes, data)
	})

	t.Run("error: http status is an acquisition failure", func(t *testing.T) {
		data, err := client.Fetch(context.Background(), server.URL+"/missing.jpg")

		require.ErrorIs(t, err, domain.ErrAcquisition)
		assert.Nil(t, data)
	})

	t.Run("error: empty body is an acquisition failure", func(t *testing.T) {
		data, err := client.Fetch(context.Background(), server.URL+"/empty.jpg")

		require.ErrorIs(t, err, domain.ErrAcquisition)
		assert.Nil(t, data)
	})
}
