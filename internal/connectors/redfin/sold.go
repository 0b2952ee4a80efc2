package redfin

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"flipfinder/internal/domain"
)

// FetchSoldComps scrapes recently sold listings near the given property
// from Redfin's sold-search page and returns them as comparable sales.
// Card markup changes periodically; cards that no longer parse are
// skipped rather than failing the whole page.
func (c *Client) FetchSoldComps(ctx context.Context, p domain.Property) ([]domain.Comp, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"market":      c.cfg.Market,
			"region_id":   c.cfg.RegionID,
			"region_type": "6",
			"sold_within_days": "180",
		}).
		Get("/stingray/api/gis-sold")
	if err != nil {
		return nil, fmt.Errorf("fetching sold listings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sold listings request failed: %s", resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parsing sold listings page: %w", err)
	}

	var comps []domain.Comp
	doc.Find(".HomeCardContainer").Each(func(_ int, card *goquery.Selection) {
		price := parseFloat(card.Find(".homecardV2Price").First().Text())
		if price <= 0 {
			return
		}

		var sqft float64
		card.Find(".HomeStatsV2 .stats").Each(func(_ int, stat *goquery.Selection) {
			text := strings.ToLower(stat.Text())
			if strings.Contains(text, "sq ft") {
				sqft = parseFloat(strings.TrimSpace(strings.TrimSuffix(text, "sq ft")))
			}
		})
		if sqft <= 0 {
			return
		}

		comps = append(comps, domain.Comp{
			Address:    strings.TrimSpace(card.Find(".homeAddressV2").First().Text()),
			Price:      price,
			SquareFeet: sqft,
		})
	})

	c.log.Debug().Str("property", p.ID).Int("comps", len(comps)).Msg("Scraped sold comps")
	return comps, nil
}
