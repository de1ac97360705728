package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pagespeedFixture = `{
  "lighthouseResult": {
    "categories": {
      "performance": {"score": 0.93},
      "seo": {"score": 0.85}
    },
    "audits": {
      "largest-contentful-paint": {"score": 0.8, "scoreDisplayMode": "numeric", "displayValue": "2.1 s"},
      "first-contentful-paint": {"score": 0.95, "scoreDisplayMode": "numeric", "displayValue": "1.1 s"},
      "color-contrast": {"score": 0.5, "scoreDisplayMode": "binary"},
      "is-on-https": {"score": null, "scoreDisplayMode": "notApplicable"}
    }
  }
}`

func TestRun_ExtractsScoresAndIssues(t *testing.T) {
	var gotQuery string
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pagespeedFixture))
	}))
	defer stub.Close()

	svc := &Service{BaseURL: stub.URL}
	result, err := svc.Run(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, 93, result.Performance)
	assert.Equal(t, 85, result.SEO)
	assert.Equal(t, "2.1 s", result.LCP)
	// lcp (0.8) and color-contrast (0.5) are below 0.9; the null-scored audit is skipped.
	assert.Equal(t, 2, result.Issues)
	assert.Equal(t, "https://example.com", result.URL)

	assert.Contains(t, gotQuery, "url=https%3A%2F%2Fexample.com")
	assert.Contains(t, gotQuery, "category=performance")
	assert.Contains(t, gotQuery, "category=seo")
}

func TestRun_RemoteFailure(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer stub.Close()

	svc := &Service{BaseURL: stub.URL}
	_, err := svc.Run(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestRun_MissingLCPAudit(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lighthouseResult":{"categories":{"performance":{"score":1},"seo":{"score":1}},"audits":{}}}`))
	}))
	defer stub.Close()

	svc := &Service{BaseURL: stub.URL}
	result, err := svc.Run(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "n/a", result.LCP)
	assert.Equal(t, 100, result.Performance)
	assert.Zero(t, result.Issues)
}
