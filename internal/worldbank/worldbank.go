// Package worldbank reads macro data and indicator series from the World Bank v2 API.
package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/logger"
	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
)

// ErrNoData is returned when every part of a macro fetch failed.
var ErrNoData = errors.New("no world bank data available")

// Client queries the World Bank API through a resilient HTTP client.
type Client struct {
	http    *resilience.Client
	baseURL string
}

var _ contract.IndicatorSource = &Client{} // Compile-time check

// NewClient returns a client for baseURL, which defaults to the public API when empty.
func NewClient(http *resilience.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = contract.DefaultWorldBankURL
	}
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

// GetIndicatorSeries returns the most recent value of an indicator, or nil when
// the API has no observation for it.
func (c *Client) GetIndicatorSeries(ctx context.Context, countryCode, indicator string) (*float64, error) {
	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&per_page=1",
		c.baseURL, url.PathEscape(countryCode), url.PathEscape(indicator))

	rows, err := c.getRows(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var row struct {
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(rows[0], &row); err != nil {
		return nil, fmt.Errorf("failed to decode indicator %s: %w", indicator, err)
	}
	return row.Value, nil
}

// GetMacroData fetches GDP, population and the capital coordinates.
// A part that fails stays nil; the call only errors when all parts failed.
func (c *Client) GetMacroData(ctx context.Context, countryCode string) (schema.MacroData, error) {
	var data schema.MacroData
	var errs []error

	gdp, err := c.GetIndicatorSeries(ctx, countryCode, schema.GDPIndicator)
	if err != nil {
		errs = append(errs, err)
	}
	data.GDP = gdp

	population, err := c.GetIndicatorSeries(ctx, countryCode, schema.PopulationIndicator)
	if err != nil {
		errs = append(errs, err)
	}
	data.Population = population

	lat, lng, err := c.getCoordinates(ctx, countryCode)
	if err != nil {
		errs = append(errs, err)
	}
	data.Lat, data.Lng = lat, lng

	if len(errs) == 3 {
		return data, fmt.Errorf("%w for %s: %w", ErrNoData, countryCode, errors.Join(errs...))
	}
	for _, e := range errs {
		logger.WithSource("worldbank").WithField("key", countryCode).WithError(e).Debug("partial macro data")
	}
	return data, nil
}

// getCoordinates reads the capital latitude and longitude, which the API encodes as strings.
func (c *Client) getCoordinates(ctx context.Context, countryCode string) (*float64, *float64, error) {
	endpoint := fmt.Sprintf("%s/country/%s?format=json", c.baseURL, url.PathEscape(countryCode))

	rows, err := c.getRows(ctx, endpoint)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	var row struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	}
	if err := json.Unmarshal(rows[0], &row); err != nil {
		return nil, nil, fmt.Errorf("failed to decode country %s: %w", countryCode, err)
	}
	return parseCoordinate(row.Latitude), parseCoordinate(row.Longitude), nil
}

// getRows returns the data page of a World Bank response, which is the second
// element of a [metadata, rows] array. An error payload has a single element.
func (c *Client) getRows(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	var page []json.RawMessage
	if err := c.http.GetJSON(ctx, endpoint, nil, &page); err != nil {
		return nil, err
	}
	if len(page) < 2 || string(page[1]) == "null" {
		return nil, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(page[1], &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows from %s: %w", endpoint, err)
	}
	return rows, nil
}

func parseCoordinate(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
