// Package redfin implements the Redfin listing source. Redfin has no
// official API; this client uses the undocumented gis-csv endpoint the
// website itself calls, which serves search results as CSV.
package redfin

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"flipfinder/internal/connectors"
	"flipfinder/internal/domain"
)

// browserUserAgent is required: the endpoint rejects non-browser clients
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds endpoint parameters for the CSV search
type Config struct {
	BaseURL  string
	Market   string // e.g. "dc"
	RegionID string // Redfin internal region identifier
}

// Client fetches listings from Redfin's unofficial CSV endpoint
type Client struct {
	http *resty.Client
	cfg  Config
	log  zerolog.Logger
}

// New creates a Redfin client
func New(cfg Config, log zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", browserUserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	return &Client{
		http: http,
		cfg:  cfg,
		log:  log.With().Str("component", "redfin_client").Logger(),
	}
}

// Name implements connectors.Source
func (c *Client) Name() string { return string(domain.SourceRedfin) }

// Fetch implements connectors.Source: download the CSV search results
// for the configured region and map rows onto domain Properties.
func (c *Client) Fetch(ctx context.Context, criteria connectors.Criteria) ([]domain.Property, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"al":          "1",
			"market":      c.cfg.Market,
			"region_id":   c.cfg.RegionID,
			"region_type": "6",
			"num_homes":   "350",
			"status":      "9",
			"uipt":        "1,2,3",
			"sf":          "1,2,3,5,6,7",
			"v":           "8",
		})
	if criteria.MaxPrice > 0 {
		req.SetQueryParam("max_price", strconv.Itoa(int(criteria.MaxPrice)))
	}

	resp, err := req.Get("/stingray/api/gis-csv")
	if err != nil {
		return nil, fmt.Errorf("fetching Redfin CSV: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("Redfin CSV request failed: %s", resp.Status())
	}

	properties, err := ParseCSV(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parsing Redfin CSV: %w", err)
	}

	c.log.Info().Int("count", len(properties)).Msg("Redfin search complete")
	return properties, nil
}

// ParseCSV maps the gis-csv column layout onto domain Properties.
// Unparseable rows are skipped, not fatal: the endpoint routinely mixes
// land and placeholder rows into residential results.
func ParseCSV(r io.Reader) ([]domain.Property, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var properties []domain.Property
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		id := field(row, "MLS#")
		if id == "" {
			id = field(row, "LISTING ID")
		}
		remarks := field(row, "REMARKS")

		properties = append(properties, domain.Property{
			ID:           "REDFIN_" + id,
			Source:       domain.SourceRedfin,
			Address:      field(row, "ADDRESS"),
			City:         field(row, "CITY"),
			State:        field(row, "STATE OR PROVINCE"),
			Zip:          field(row, "ZIP OR POSTAL CODE"),
			ListPrice:    parseFloat(field(row, "PRICE")),
			Bedrooms:     int(parseFloat(field(row, "BEDS"))),
			Bathrooms:    parseFloat(field(row, "BATHS")),
			SquareFeet:   parseFloat(field(row, "SQUARE FEET")),
			LotSize:      field(row, "LOT SIZE"),
			YearBuilt:    int(parseFloat(field(row, "YEAR BUILT"))),
			DaysOnMarket: int(parseFloat(field(row, "DAYS ON MARKET"))),
			Description:  remarks,
			Latitude:     parseFloat(field(row, "LATITUDE")),
			Longitude:    parseFloat(field(row, "LONGITUDE")),
			Keywords:     connectors.ExtractKeywords(remarks),
		})
	}

	return properties, nil
}

// parseFloat tolerates the currency formatting Redfin mixes into numeric
// columns ("$425,000", "1,500"). Unparseable input yields 0.
func parseFloat(s string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
