package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StrideCoach/internal/model"
)

// HTTPSource implements Source using the profiles REST API.
type HTTPSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPSource creates a new source with optional proxy support.
func NewHTTPSource(baseURL, apiKey, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (h *HTTPSource) Name() string { return "http" }

// checkin is one daily energy reading as the API reports it.
type checkin struct {
	Timestamp int64   `json:"timestamp"`
	Energy    float64 `json:"energy"`
}

// apiProfile is the expected JSON shape from the profiles API. Daily check-ins
// replace energyHistory when present.
type apiProfile struct {
	model.OrchestratorInput
	Checkins []checkin `json:"checkins"`
}

func (h *HTTPSource) Profiles(ctx context.Context) ([]model.OrchestratorInput, error) {
	endpoint := fmt.Sprintf("%s/api/v1/profiles", h.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch profiles: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []apiProfile
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	out := make([]model.OrchestratorInput, len(raw))
	for i, p := range raw {
		out[i] = p.OrchestratorInput
		if len(p.Checkins) > 0 {
			out[i].EnergyHistory = weeklyEnergy(p.Checkins)
		}
	}
	return out, nil
}

// weeklyEnergy averages daily check-ins per ISO week, oldest week first.
func weeklyEnergy(daily []checkin) []float64 {
	if len(daily) == 0 {
		return nil
	}
	sorted := append([]checkin(nil), daily...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	var weekly []float64
	var sum float64
	var n int
	currentKey := -1

	for _, d := range sorted {
		year, isoWeek := time.Unix(d.Timestamp, 0).UTC().ISOWeek()
		weekKey := year*100 + isoWeek

		if weekKey != currentKey && n > 0 {
			weekly = append(weekly, sum/float64(n))
			sum, n = 0, 0
		}
		currentKey = weekKey
		sum += d.Energy
		n++
	}
	if n > 0 {
		weekly = append(weekly, sum/float64(n))
	}
	return weekly
}
