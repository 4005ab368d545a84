package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string][]Status{
		"": {
			{ID: "30", Content: "<p>Third post</p>"},
			{ID: "20", Content: "<p>Second post</p>"},
		},
		"20": {
			{ID: "15", Content: "<p>A boost</p>", Reblog: &Status{ID: "99"}},
			{ID: "10", Content: "<p>First post</p>"},
		},
		"10": {},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/accounts/lookup":
			if r.URL.Query().Get("acct") != "someone" {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(Account{ID: "1", Acct: "someone", Username: "someone"})

		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/accounts/1/statuses":
			page, ok := pages[r.URL.Query().Get("max_id")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(page)

		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/statuses":
			if r.Header.Get("Authorization") != "Bearer sekrit" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			require.NoError(t, r.ParseForm())
			json.NewEncoder(w).Encode(Status{ID: "42", Content: r.PostFormValue("status")})

		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	t.Run("Should resolve an account name to its id", func(t *testing.T) {
		c := New(newTestServer(t).URL, "")

		account, err := c.Lookup(context.Background(), "someone")

		require.NoError(t, err)
		assert.Equal(t, "1", account.ID)
	})

	t.Run("Should fail lookup for an unknown account", func(t *testing.T) {
		c := New(newTestServer(t).URL, "")

		_, err := c.Lookup(context.Background(), "nobody")

		assert.Error(t, err)
	})

	t.Run("Should page through the whole history and drop reblogs", func(t *testing.T) {
		c := New(newTestServer(t).URL, "")

		statuses, err := c.Statuses(context.Background(), "1", 100, "")

		require.NoError(t, err)
		require.Len(t, statuses, 3)
		assert.Equal(t, "30", statuses[0].ID)
		assert.Equal(t, "20", statuses[1].ID)
		assert.Equal(t, "10", statuses[2].ID)
	})

	t.Run("Should stop paging at the since id", func(t *testing.T) {
		c := New(newTestServer(t).URL, "")

		statuses, err := c.Statuses(context.Background(), "1", 100, "20")

		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, "30", statuses[0].ID)
	})

	t.Run("Should respect the post budget", func(t *testing.T) {
		c := New(newTestServer(t).URL, "")

		statuses, err := c.Statuses(context.Background(), "1", 2, "")

		require.NoError(t, err)
		assert.Len(t, statuses, 2)
	})

	t.Run("Should publish with the bearer token", func(t *testing.T) {
		c := New(newTestServer(t).URL, "sekrit")

		status, err := c.Post(context.Background(), "hello fediverse")

		require.NoError(t, err)
		assert.Equal(t, "hello fediverse", status.Content)
	})

	t.Run("Should surface an authorization failure", func(t *testing.T) {
		c := New(newTestServer(t).URL, "wrong")

		err := c.Publish(context.Background(), "hello")

		assert.Error(t, err)
	})
}

func TestIDAfter(t *testing.T) {
	t.Run("Should compare decimal ids numerically", func(t *testing.T) {
		assert.True(t, idAfter("100", "99"))
		assert.True(t, idAfter("21", "20"))
		assert.False(t, idAfter("20", "20"))
		assert.False(t, idAfter("99", "100"))
	})
}
