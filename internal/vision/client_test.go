package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindText(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var body struct {
			Image  string `json:"image"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body.Image)
		assert.Equal(t, 640, body.Width)

		resp := map[string]any{
			"results": []map[string]any{
				{
					"text":       "THE GIVER",
					"corners":    [][]float64{{10, 10}, {200, 10}, {200, 60}, {10, 60}},
					"confidence": 0.93,
				},
				{
					"text":       "broken",
					"corners":    [][]float64{{0, 0}},
					"confidence": 0.5,
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.URL)
	texts, err := client.FindText(context.Background(), Image{Data: []byte("img"), Width: 640, Height: 480})
	require.NoError(t, err)
	assert.Equal(t, "/find_text", gotPath)

	// The malformed entry is dropped.
	require.Len(t, texts, 1)
	assert.Equal(t, "THE GIVER", texts[0].Text)
	assert.InDelta(t, 0.93, texts[0].Confidence, 1e-9)
	assert.InDelta(t, 105.0, texts[0].Center().X, 1e-9)
}

func TestFindBooks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/find_books", r.URL.Path)

		resp := map[string]any{
			"results": []map[string]any{
				{
					"box":        map[string]float64{"x1": 0.0, "y1": 0.0, "x2": 0.5, "y2": 1.0},
					"class":      0,
					"name":       "book",
					"confidence": 0.9,
					"segments":   map[string][]float64{"x": {0.0, 0.5}, "y": {0.0, 1.0}},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.URL)
	regions, err := client.FindBooks(context.Background(), Image{Data: []byte("img")})
	require.NoError(t, err)

	require.Len(t, regions, 1)
	assert.Equal(t, "book", regions[0].ClassName)
	assert.InDelta(t, 0.5, regions[0].Box.X2, 1e-9)
	assert.Equal(t, []float64{0.0, 0.5}, regions[0].Segments.X)
}

func TestFindTextServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.URL)

	_, err := client.FindText(context.Background(), Image{Data: []byte("img")})
	assert.Error(t, err)

	_, err = client.FindBooks(context.Background(), Image{Data: []byte("img")})
	assert.Error(t, err)
}
