package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPI = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Result is the distilled audit report the marketing site renders.
type Result struct {
	Performance int    `json:"performance"`
	SEO         int    `json:"seo"`
	LCP         string `json:"lcp"`
	Issues      int    `json:"issues"`
	URL         string `json:"url"`
}

// Service proxies the PageSpeed Insights API and reduces its report to two
// category scores, the LCP display value, and an issue count.
type Service struct {
	BaseURL string // defaults to the Google endpoint; tests point it at a stub
	APIKey  string
	Client  *http.Client
}

type pagespeedResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
			SEO struct {
				Score float64 `json:"score"`
			} `json:"seo"`
		} `json:"categories"`
		Audits map[string]struct {
			Score            *float64 `json:"score"`
			ScoreDisplayMode string   `json:"scoreDisplayMode"`
			DisplayValue     string   `json:"displayValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// Run audits the target URL. Sub-0.9-scored audits count as issues, mirroring
// the "needs work" threshold the report UI uses.
func (s *Service) Run(ctx context.Context, target string) (*Result, error) {
	if s.Client == nil {
		s.Client = &http.Client{Timeout: 60 * time.Second}
	}
	base := s.BaseURL
	if base == "" {
		base = defaultAPI
	}

	q := url.Values{}
	q.Set("url", target)
	q.Add("category", "performance")
	q.Add("category", "seo")
	if s.APIKey != "" {
		q.Set("key", s.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pagespeed request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pagespeed error: status %d body: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var ps pagespeedResponse
	if err := json.Unmarshal(body, &ps); err != nil {
		return nil, fmt.Errorf("pagespeed response decode: %w", err)
	}

	lcp := "n/a"
	if a, ok := ps.LighthouseResult.Audits["largest-contentful-paint"]; ok && a.DisplayValue != "" {
		lcp = strings.TrimSpace(a.DisplayValue)
	}

	issues := 0
	for _, a := range ps.LighthouseResult.Audits {
		if a.Score != nil && *a.Score < 0.9 {
			issues++
		}
	}

	return &Result{
		Performance: int(math.Round(ps.LighthouseResult.Categories.Performance.Score * 100)),
		SEO:         int(math.Round(ps.LighthouseResult.Categories.SEO.Score * 100)),
		LCP:         lcp,
		Issues:      issues,
		URL:         target,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
