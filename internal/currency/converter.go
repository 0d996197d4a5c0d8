// Package currency converts JPY order totals to IDR for the Rupiah
// bank-transfer method. Rates come from an external API with a secondary
// provider and a static fallback; a fetched rate is cached for an hour.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"warungjp/internal/domain"
	applog "warungjp/internal/log"
)

// FallbackRate approximates 1 JPY in IDR when both providers are down.
const FallbackRate = 100.0

const cacheTTL = time.Hour

type Converter struct {
	primaryURL   string
	secondaryURL string
	client       *http.Client

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
	fallback  bool // cached value came from FallbackRate
}

func NewConverter(primaryURL, secondaryURL string) *Converter {
	return &Converter{
		primaryURL:   primaryURL,
		secondaryURL: secondaryURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Result is a completed conversion. Fallback marks a rate that came from
// the static approximation and should surface a soft warning.
type Result struct {
	Amount    int64   `json:"amount"`     // input, yen
	Converted int64   `json:"converted"`  // rounded IDR
	Rate      float64 `json:"rate"`
	Fallback  bool    `json:"fallback"`
	FetchedAt string  `json:"fetched_at"`
}

// Convert returns nil for any method other than the Rupiah bank transfer,
// without touching the network. Conversion itself never fails: the worst
// case degrades to the fallback rate.
func (c *Converter) Convert(ctx context.Context, amount int64, method string) (*Result, error) {
	if method != domain.MethodBankRupiah {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetchedAt.IsZero() || time.Since(c.fetchedAt) >= cacheTTL {
		c.refreshLocked(ctx)
	}

	return c.resultLocked(amount), nil
}

// Refresh fetches a fresh rate regardless of cache state.
func (c *Converter) Refresh(ctx context.Context, amount int64) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked(ctx)
	return c.resultLocked(amount)
}

func (c *Converter) resultLocked(amount int64) *Result {
	return &Result{
		Amount:    amount,
		Converted: int64(math.Round(float64(amount) * c.rate)),
		Rate:      c.rate,
		Fallback:  c.fallback,
		FetchedAt: c.fetchedAt.UTC().Format(time.RFC3339),
	}
}

func (c *Converter) refreshLocked(ctx context.Context) {
	rate, err := c.fetchPrimary(ctx)
	if err != nil {
		applog.Warn("currency.primary.fail", err, nil)
		rate, err = c.fetchSecondary(ctx)
	}
	if err != nil {
		applog.Warn("currency.fallback", err, map[string]any{"rate": FallbackRate})
		c.rate, c.fallback = FallbackRate, true
	} else {
		c.rate, c.fallback = rate, false
	}
	c.fetchedAt = time.Now()
}

func (c *Converter) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate endpoint returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// exchangerate.host convert payload.
func (c *Converter) fetchPrimary(ctx context.Context) (float64, error) {
	body, err := c.get(ctx, c.primaryURL)
	if err != nil {
		return 0, err
	}
	var payload struct {
		Success bool `json:"success"`
		Info    struct {
			Rate float64 `json:"rate"`
		} `json:"info"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, err
	}
	if !payload.Success || payload.Info.Rate <= 0 {
		return 0, fmt.Errorf("primary provider reported no rate")
	}
	return payload.Info.Rate, nil
}

// open.er-api.com latest payload.
func (c *Converter) fetchSecondary(ctx context.Context) (float64, error) {
	body, err := c.get(ctx, c.secondaryURL)
	if err != nil {
		return 0, err
	}
	var payload struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, err
	}
	rate := payload.Rates["IDR"]
	if payload.Result != "success" || rate <= 0 {
		return 0, fmt.Errorf("secondary provider reported no rate")
	}
	return rate, nil
}
