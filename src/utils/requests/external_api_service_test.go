package requests_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"autobooks/src/utils/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalAPIService(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method": r.Method,
			"auth":   r.Header.Get("Authorization"),
			"apikey": r.Header.Get("apikey"),
			"q":      r.URL.Query().Get("q"),
			"body":   body["name"],
		})
	}))
	defer ts.Close()

	svc := requests.NewExternalAPIService(5 * time.Second)

	t.Run("Get sends token, params and headers", func(t *testing.T) {
		res, err := svc.Get(context.Background(), ts.URL, "tok", url.Values{"q": {"x"}}, map[string]string{"apikey": "k"})
		require.NoError(t, err)
		defer res.Body.Close()

		var got map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
		assert.Equal(t, http.MethodGet, got["method"])
		assert.Equal(t, "Bearer tok", got["auth"])
		assert.Equal(t, "k", got["apikey"])
		assert.Equal(t, "x", got["q"])
	})

	t.Run("Post encodes the body", func(t *testing.T) {
		res, err := svc.Post(context.Background(), ts.URL, "", nil, map[string]string{"name": "truck"}, nil)
		require.NoError(t, err)
		defer res.Body.Close()

		var got map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
		assert.Equal(t, "", got["auth"])
		assert.Equal(t, "truck", got["body"])
	})
}
