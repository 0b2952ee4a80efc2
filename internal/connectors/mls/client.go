// Package mls implements the Bright MLS listing source. It speaks the
// RESO-style JSON search API: OAuth2 client-credentials authentication
// followed by a filtered property search.
package mls

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"flipfinder/internal/connectors"
	"flipfinder/internal/domain"
)

// Config holds API endpoint and credentials
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// Client is a Bright MLS API client
type Client struct {
	http *resty.Client
	cfg  Config
	log  zerolog.Logger
}

// New creates an MLS client
func New(cfg Config, log zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http: http,
		cfg:  cfg,
		log:  log.With().Str("component", "mls_client").Logger(),
	}
}

// Name implements connectors.Source
func (c *Client) Name() string { return string(domain.SourceMLS) }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// authenticate obtains a bearer token via the client-credentials grant
// and installs it on the HTTP client.
func (c *Client) authenticate(ctx context.Context) error {
	var token tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"grant_type":    "client_credentials",
		}).
		SetResult(&token).
		Post("/oauth2/token")
	if err != nil {
		return fmt.Errorf("requesting MLS token: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("MLS authentication failed: %s", resp.Status())
	}

	c.http.SetAuthToken(token.AccessToken)
	c.log.Debug().Msg("Authenticated with Bright MLS")
	return nil
}

// listing mirrors the RESO fields we request from the search endpoint
type listing struct {
	ListingID      string  `json:"ListingId"`
	ListPrice      float64 `json:"ListPrice"`
	Address        string  `json:"UnparsedAddress"`
	City           string  `json:"City"`
	State          string  `json:"StateOrProvince"`
	PostalCode     string  `json:"PostalCode"`
	BedroomsTotal  int     `json:"BedroomsTotal"`
	BathroomsFull  int     `json:"BathroomsFull"`
	BathroomsHalf  int     `json:"BathroomsHalf"`
	LivingArea     float64 `json:"LivingArea"`
	LotSize        string  `json:"LotSize"`
	YearBuilt      int     `json:"YearBuilt"`
	DaysOnMarket   int     `json:"DaysOnMarket"`
	PublicRemarks  string  `json:"PublicRemarks"`
	PrivateRemarks string  `json:"PrivateRemarks"`
	Latitude       float64 `json:"Latitude"`
	Longitude      float64 `json:"Longitude"`
}

type searchResponse struct {
	Value []listing `json:"value"`
}

// Fetch implements connectors.Source. It authenticates, runs the search
// and maps the results onto domain Properties.
func (c *Client) Fetch(ctx context.Context, criteria connectors.Criteria) ([]domain.Property, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	query := c.buildQuery(criteria)

	var result searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(query).
		SetResult(&result).
		Post("/properties/search")
	if err != nil {
		return nil, fmt.Errorf("searching MLS properties: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("MLS search failed: %s", resp.Status())
	}

	properties := make([]domain.Property, 0, len(result.Value))
	for _, l := range result.Value {
		properties = append(properties, c.toProperty(l))
	}

	c.log.Info().Int("count", len(properties)).Msg("MLS search complete")
	return properties, nil
}

// buildQuery assembles the RESO filter document for the search endpoint
func (c *Client) buildQuery(criteria connectors.Criteria) map[string]any {
	types := criteria.PropertyTypes
	if len(types) == 0 {
		types = connectors.DefaultPropertyTypes()
	}

	and := []map[string]any{
		{"StandardStatus": map[string]any{"$in": []string{"Active", "Coming Soon"}}},
		{"PropertyType": map[string]any{"$in": types}},
	}
	if criteria.MaxPrice > 0 {
		and = append(and, map[string]any{"ListPrice": map[string]any{"$lte": criteria.MaxPrice}})
	}
	if criteria.MaxDaysOnMarket > 0 {
		cutoff := time.Now().AddDate(0, 0, -criteria.MaxDaysOnMarket).Format("2006-01-02")
		and = append(and, map[string]any{"ListingContractDate": map[string]any{"$gte": cutoff}})
	}
	if criteria.Area != "" {
		if isZip(criteria.Area) {
			and = append(and, map[string]any{"PostalCode": criteria.Area})
		} else {
			and = append(and, map[string]any{"City": map[string]any{"$eq": criteria.Area}})
		}
	}

	return map[string]any{
		"filter": map[string]any{"$and": and},
		"fields": []string{
			"ListingId", "ListPrice", "UnparsedAddress", "City", "StateOrProvince",
			"PostalCode", "BedroomsTotal", "BathroomsFull", "BathroomsHalf",
			"LivingArea", "LotSize", "YearBuilt", "DaysOnMarket",
			"PublicRemarks", "PrivateRemarks", "Latitude", "Longitude",
		},
		"limit": 100,
	}
}

func (c *Client) toProperty(l listing) domain.Property {
	return domain.Property{
		ID:           l.ListingID,
		Source:       domain.SourceMLS,
		Address:      l.Address,
		City:         l.City,
		State:        l.State,
		Zip:          l.PostalCode,
		ListPrice:    l.ListPrice,
		Bedrooms:     l.BedroomsTotal,
		Bathrooms:    float64(l.BathroomsFull) + 0.5*float64(l.BathroomsHalf),
		SquareFeet:   l.LivingArea,
		LotSize:      l.LotSize,
		YearBuilt:    l.YearBuilt,
		DaysOnMarket: l.DaysOnMarket,
		Description:  l.PublicRemarks,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		Keywords:     connectors.ExtractKeywords(l.PublicRemarks + " " + l.PrivateRemarks),
	}
}

func isZip(area string) bool {
	if len(area) != 5 {
		return false
	}
	for _, r := range area {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
