package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/mtgio/internal/http"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	payloads := map[string][]string{
		"types":      {"Artifact", "Creature", "Instant"},
		"subtypes":   {"Goblin", "Wizard"},
		"supertypes": {"Basic", "Legendary", "Snow"},
		"formats":    {"Commander", "Legacy", "Modern"},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")

		values, ok := payloads[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		w.Header().Set("Ratelimit-Remaining", "4000")
		_ = json.NewEncoder(w).Encode(map[string][]string{name: values})
	}))
}

func TestCatalogClient(t *testing.T) {
	t.Parallel()

	server := catalogServer(t)
	defer server.Close()

	catalog := NewCatalogClient(internalhttp.NewClient(server.URL))
	ctx := context.Background()

	tests := []struct {
		name     string
		fetch    func(context.Context) (*mtg.Response[[]string], error)
		expected []string
	}{
		{name: "types", fetch: catalog.Types, expected: []string{"Artifact", "Creature", "Instant"}},
		{name: "subtypes", fetch: catalog.Subtypes, expected: []string{"Goblin", "Wizard"}},
		{name: "supertypes", fetch: catalog.Supertypes, expected: []string{"Basic", "Legendary", "Snow"}},
		{name: "formats", fetch: catalog.Formats, expected: []string{"Commander", "Legacy", "Modern"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := tt.fetch(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Content)
			require.NotNil(t, result.RatelimitRemaining)
			assert.Equal(t, uint32(4000), *result.RatelimitRemaining)
		})
	}
}

func TestCatalogClient_UnknownCatalog(t *testing.T) {
	t.Parallel()

	catalog := NewCatalogClient(internalhttp.NewClient("http://127.0.0.1:1"))

	_, err := catalog.Get(context.Background(), mtg.Catalog("colors"))
	require.ErrorIs(t, err, mtg.ErrUnknownCatalog)
}
