package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// volumesJSON mirrors the wire format of the volumes API.
const volumesJSON = `{
  "totalItems": 3,
  "items": [
    {
      "volumeInfo": {
        "title": "APPLES",
        "authors": ["A. Orchard"],
        "industryIdentifiers": [
          {"identifier": "9781234243532", "type": "ISBN_13"},
          {"identifier": "456", "type": "bad"}
        ]
      }
    },
    {
      "volumeInfo": {
        "title": "BANANAS",
        "industryIdentifiers": [
          {"identifier": "123", "type": "bad"},
          {"identifier": "456", "type": "bad"}
        ]
      }
    },
    {
      "volumeInfo": {
        "title": "CHERRIES",
        "industryIdentifiers": [
          {"identifier": "9781243567890", "type": "ISBN_13"}
        ]
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := NewClient(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)
	return client, ts
}

func TestSearchFiltersNonISBN13(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesJSON))
	})

	results, err := client.Search(context.Background(), Query{Phrase: "apples cherries"})
	require.NoError(t, err)

	assert.Equal(t, "apples cherries", gotQuery)

	// Only the items with an ISBN-13 identifier survive, in source order.
	require.Len(t, results, 2)
	assert.Equal(t, "APPLES", results[0].Title)
	assert.Equal(t, "9781234243532", results[0].ISBN13)
	assert.Equal(t, []string{"A. Orchard"}, results[0].Authors)
	assert.Equal(t, "CHERRIES", results[1].Title)
	assert.Equal(t, "9781243567890", results[1].ISBN13)
}

func TestSearchServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Search(context.Background(), Query{Phrase: "anything"})
	assert.Error(t, err)
}

func TestSearchStalledUpstream(t *testing.T) {
	// The upstream accepts the request and never responds; the search
	// must come back with an error instead of hanging.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	client.timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := client.Search(context.Background(), Query{Phrase: "anything"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSearchZeroItems(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	})

	results, err := client.Search(context.Background(), Query{Phrase: "nothing here"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyQuery(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	results, err := client.Search(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, called, "empty query must not hit the API")
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"phrase only", Query{Phrase: "all quiet"}, "all quiet"},
		{"title", Query{Title: "Dune"}, "intitle:Dune"},
		{"quoted title", Query{Title: "The Giver"}, `intitle:"The Giver"`},
		{"author and subject", Query{Author: "Lowry", Subject: "dystopia"}, "inauthor:Lowry subject:dystopia"},
		{"isbn", Query{ISBN: "9781234243532"}, "isbn:9781234243532"},
		{
			"everything",
			Query{Phrase: "classic", Title: "Dune", Author: "Frank Herbert", Publisher: "Ace", Subject: "scifi", ISBN: "978"},
			`classic intitle:Dune inauthor:"Frank Herbert" inpublisher:Ace subject:scifi isbn:978`,
		},
		{"empty", Query{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.terms())
		})
	}
}

func TestHypothesisQuery(t *testing.T) {
	q := HypothesisQuery("KICKING AWAY THE LADDER: DEVELOPMENT STRATEGY", "HA-JOON CHANG")
	assert.Equal(t, "kicking away the ladder development strategy hajoon chang", q.Phrase)

	q = HypothesisQuery("Dune", "")
	assert.Equal(t, "dune", q.Phrase)
}

func TestCleanPhrase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  spaced   out  ", "spaced out"},
		{"The Giver", "the giver"},
		{"...", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanPhrase(tt.in))
	}
}
