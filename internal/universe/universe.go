package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go-stock-sentiment/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultConstituentsURL is the public S&P 500 constituents CSV.
const DefaultConstituentsURL = "https://datahub.io/core/s-and-p-500-companies/r/constituents.csv"

const freshnessKey = "sp500"

// Cache is an explicitly-owned, lazily-initialized, thread-safe view of the
// valid-ticker universe. Construct one and pass it by reference to whatever
// needs membership testing; call Refresh to force a reload.
type Cache struct {
	url    string
	client *http.Client
	logger *logger.Logger

	mu        sync.RWMutex
	symbols   map[string]struct{}
	freshness *gocache.Cache
}

// NewCache creates a universe cache. The set is not populated until the
// first Contains/Symbols/Refresh call. ttl bounds how long a loaded set is
// considered fresh.
func NewCache(url string, ttl time.Duration, log *logger.Logger) *Cache {
	if url == "" {
		url = DefaultConstituentsURL
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    log,
		freshness: gocache.New(ttl, 10*time.Minute),
	}
}

// Contains reports whether ticker is in the universe. A load failure on a
// cold cache degrades to false rather than returning an error; membership
// testing is advisory.
func (c *Cache) Contains(ctx context.Context, ticker string) bool {
	symbols, err := c.ensure(ctx)
	if err != nil {
		c.logger.Error("Failed to load ticker universe", logger.ErrorField(err))
		return false
	}
	_, ok := symbols[strings.ToUpper(ticker)]
	return ok
}

// Symbols returns a sorted-insensitive copy of the universe.
func (c *Cache) Symbols(ctx context.Context) ([]string, error) {
	symbols, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(symbols))
	for s := range symbols {
		out = append(out, s)
	}
	return out, nil
}

// Refresh reloads the universe unconditionally.
func (c *Cache) Refresh(ctx context.Context) error {
	symbols, err := c.load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.symbols = symbols
	c.mu.Unlock()
	c.freshness.SetDefault(freshnessKey, time.Now())

	c.logger.Info("Ticker universe refreshed", logger.IntField("count", len(symbols)))
	return nil
}

// ensure returns the current set, loading it when empty or stale. A stale
// set that fails to refresh is still served.
func (c *Cache) ensure(ctx context.Context) (map[string]struct{}, error) {
	c.mu.RLock()
	symbols := c.symbols
	c.mu.RUnlock()

	_, fresh := c.freshness.Get(freshnessKey)
	if symbols != nil && fresh {
		return symbols, nil
	}

	if err := c.Refresh(ctx); err != nil {
		if symbols != nil {
			c.logger.Warn("Serving stale ticker universe", logger.ErrorField(err))
			return symbols, nil
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbols, nil
}

func (c *Cache) load(ctx context.Context) (map[string]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create universe request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch universe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("universe source returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse universe CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("universe CSV is empty")
	}

	symbolCol := -1
	for i, col := range records[0] {
		if strings.EqualFold(strings.TrimSpace(col), "Symbol") {
			symbolCol = i
			break
		}
	}
	if symbolCol < 0 {
		return nil, fmt.Errorf("universe CSV has no Symbol column")
	}

	symbols := make(map[string]struct{}, len(records)-1)
	for _, record := range records[1:] {
		if symbolCol >= len(record) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(record[symbolCol]))
		if symbol != "" {
			symbols[symbol] = struct{}{}
		}
	}
	return symbols, nil
}
