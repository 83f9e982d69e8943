package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"paper_bot/internal/models"
)

// Client — REST-клиент метаданных биржи. Единственное, что нужно
// движку — шаг лота; он меняется редко и кэшируется навсегда.
type Client struct {
	http    *http.Client
	baseURL string

	mu    sync.Mutex
	cache map[string]models.Instrument
}

func NewClient(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   make(map[string]models.Instrument),
	}
}

// Instrument возвращает метаданные символа, из кэша после первого вызова.
func (c *Client) Instrument(ctx context.Context, symbol string) (models.Instrument, error) {
	c.mu.Lock()
	if inst, ok := c.cache[symbol]; ok {
		c.mu.Unlock()
		return inst, nil
	}
	c.mu.Unlock()

	inst, err := c.fetch(ctx, symbol)
	if err != nil {
		return models.Instrument{}, err
	}

	c.mu.Lock()
	c.cache[symbol] = inst
	c.mu.Unlock()
	return inst, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (models.Instrument, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/api/v3/exchangeInfo?symbol="+url.QueryEscape(symbol),
		nil,
	)
	if err != nil {
		return models.Instrument{}, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Instrument{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return models.Instrument{}, errors.Errorf("http %d: %s", resp.StatusCode, string(b))
	}

	var payload struct {
		Symbols []struct {
			Symbol  string `json:"symbol"`
			Filters []struct {
				FilterType string `json:"filterType"`
				StepSize   string `json:"stepSize"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Instrument{}, errors.Wrap(err, "decode")
	}

	for _, s := range payload.Symbols {
		if s.Symbol != symbol {
			continue
		}
		for _, f := range s.Filters {
			if f.FilterType != "LOT_SIZE" {
				continue
			}
			step, err := strconv.ParseFloat(f.StepSize, 64)
			if err != nil || step <= 0 {
				return models.Instrument{}, errors.Errorf("stepSize parse: %v (%q)", err, f.StepSize)
			}
			return models.Instrument{
				Symbol:        symbol,
				StepSize:      step,
				StepPrecision: PrecisionFromStep(f.StepSize),
			}, nil
		}
		return models.Instrument{}, errors.Errorf("no LOT_SIZE filter for %s", symbol)
	}
	return models.Instrument{}, errors.Errorf("symbol %s not found", symbol)
}

// PrecisionFromStep — число значащих десятичных знаков шага лота:
// "0.01000000" -> 2, "1.00000000" -> 0, "0.00100000" -> 3.
func PrecisionFromStep(step string) int {
	i := strings.IndexByte(step, '.')
	if i < 0 {
		return 0
	}
	frac := strings.TrimRight(step[i+1:], "0")
	return len(frac)
}
