package redfin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipfinder/internal/domain"
)

const soldPage = `<html><body>
<div class="HomeCardContainer">
  <span class="homecardV2Price">$415,000</span>
  <div class="HomeStatsV2"><div class="stats">3 Beds</div><div class="stats">1,400 Sq Ft</div></div>
  <span class="homeAddressV2">121 Main St, Arlington, VA</span>
</div>
<div class="HomeCardContainer">
  <span class="homecardV2Price"></span>
  <span class="homeAddressV2">No price card</span>
</div>
<div class="HomeCardContainer">
  <span class="homecardV2Price">$500,000</span>
  <div class="HomeStatsV2"><div class="stats">4 Beds</div></div>
  <span class="homeAddressV2">No sqft card</span>
</div>
</body></html>`

func TestFetchSoldComps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stingray/api/gis-sold", r.URL.Path)
		_, _ = w.Write([]byte(soldPage))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Market: "dc", RegionID: "12839"}, zerolog.Nop())

	comps, err := client.FetchSoldComps(context.Background(), domain.Property{ID: "MLS1"})
	require.NoError(t, err)

	// Cards missing a price or square footage are skipped
	require.Len(t, comps, 1)
	assert.Equal(t, "121 Main St, Arlington, VA", comps[0].Address)
	assert.InDelta(t, 415000, comps[0].Price, 0.01)
	assert.InDelta(t, 1400, comps[0].SquareFeet, 0.01)
}

func TestFetchSoldComps_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, zerolog.Nop())

	_, err := client.FetchSoldComps(context.Background(), domain.Property{})
	assert.Error(t, err)
}
