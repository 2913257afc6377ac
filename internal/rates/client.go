// Package rates fetches daily EUR reference exchange rates from the ECB feed
// and converts amounts between currencies through EUR cross rates.
package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"plata/internal/cache"
	"plata/internal/core"
	"plata/internal/log"
)

var (
	ErrUnknownCurrency = fmt.Errorf("unknown currency")
	ErrNoRates         = fmt.Errorf("no rates available")
)

// Table holds EUR-based rates keyed by ISO currency code, for one feed day.
type Table struct {
	Day   string
	Rates map[string]decimal.Decimal
}

type Client struct {
	url    string
	client *http.Client
	cache  *cache.LRUCache[Table]
	logger *log.Logger
}

const cacheKey = "daily"

func NewClient(url string, ttl time.Duration, logger *log.Logger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:  cache.NewLRUCache[Table](1, ttl),
		logger: logger.WithComponent(log.ComponentRates),
	}
}

// CleanExpired sweeps the rate table cache, satisfying cache.Cleaner.
func (c *Client) CleanExpired() int {
	return c.cache.CleanExpired()
}

// Daily returns the current rate table, fetching the feed on cache miss.
func (c *Client) Daily(ctx context.Context) (Table, error) {
	if table, ok := c.cache.Get(cacheKey); ok {
		return table, nil
	}

	body, err := c.fetch(ctx)
	if err != nil {
		return Table{}, err
	}

	table, err := parseTable(body)
	if err != nil {
		return Table{}, err
	}

	c.cache.Set(cacheKey, table)
	c.logger.InfoContext(ctx, "fetched exchange rates",
		log.FieldOperation, log.OpFetch,
		"day", table.Day, "currencies", len(table.Rates))
	return table, nil
}

// Convert converts an amount between two currencies through EUR.
func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}

	table, err := c.Daily(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return table.Convert(amount, from, to)
}

// Convert translates amount from one currency to another. The feed quotes
// units per EUR, so EUR itself is the implicit 1.0 entry.
func (t Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromRate, err := t.rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := t.rate(to)
	if err != nil {
		return decimal.Zero, err
	}

	inEUR := amount.Div(fromRate)
	return inEUR.Mul(toRate).Round(core.DisplayScale), nil
}

func (t Table) rate(currency string) (decimal.Decimal, error) {
	if currency == "EUR" {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := t.Rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return rate, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// parseTable extracts the rate table from the ECB daily XML document. The
// feed nests Cube elements: an outer holder, a dated Cube, then one Cube per
// currency with currency and rate attributes.
func parseTable(body []byte) (Table, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return Table{}, fmt.Errorf("parse rates XML: %w", err)
	}

	dated := doc.FindElement("//Cube/Cube[@time]")
	if dated == nil {
		return Table{}, ErrNoRates
	}

	table := Table{
		Day:   dated.SelectAttrValue("time", ""),
		Rates: make(map[string]decimal.Decimal),
	}

	for _, cube := range dated.FindElements("./Cube") {
		currency := cube.SelectAttrValue("currency", "")
		rateText := cube.SelectAttrValue("rate", "")
		if currency == "" || rateText == "" {
			continue
		}
		rate, err := decimal.NewFromString(rateText)
		if err != nil {
			return Table{}, fmt.Errorf("parse rate for %s: %w", currency, err)
		}
		table.Rates[currency] = rate
	}

	if len(table.Rates) == 0 {
		return Table{}, ErrNoRates
	}
	return table, nil
}
