package geocode

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
)

/*
Provider describes how to query one geocoding API and where its result list
lives in the response. The resolver only ever consults these fields, so
supporting another provider is a matter of adding a profile.
*/
type Provider struct {
	Name       string
	BaseURL    string
	QueryParam string
	LimitParam string
	// ResultPath is a dotted path to the result list. Empty means the body is
	// the list itself.
	ResultPath string
	Extra      map[string]string
	APIKey     string
	RequireKey bool
}

// OpenMeteo answers {"results": [{"latitude": .., "longitude": ..}]}.
var OpenMeteo = Provider{
	Name:       "openmeteo",
	BaseURL:    "https://geocoding-api.open-meteo.com/v1/search",
	QueryParam: "name",
	LimitParam: "count",
	ResultPath: "results",
}

// Nominatim answers a bare list of {"lat": "..", "lon": ".."}.
var Nominatim = Provider{
	Name:       "nominatim",
	BaseURL:    "https://nominatim.openstreetmap.org/search",
	QueryParam: "q",
	LimitParam: "limit",
	Extra:      map[string]string{"format": "jsonv2"},
}

// ProviderByName returns a copy of a built-in profile.
func ProviderByName(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", OpenMeteo.Name:
		return OpenMeteo.clone(), nil
	case Nominatim.Name:
		return Nominatim.clone(), nil
	default:
		return Provider{}, fmt.Errorf("unknown geocoding provider %q", name)
	}
}

func (p Provider) clone() Provider {
	p.Extra = maps.Clone(p.Extra)
	return p
}

// URL builds the lookup URL for address, asking for a single result.
func (p Provider) URL(address string) (string, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid geocoding base url: %w", err)
	}

	q := u.Query()
	q.Set(p.QueryParam, address)
	q.Set(p.LimitParam, "1")

	for k, v := range p.Extra {
		q.Set(k, v)
	}

	if p.APIKey != "" {
		q.Set("apikey", p.APIKey)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
