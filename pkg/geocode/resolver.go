// Package geocode resolves a free-text address to coordinates through a
// configurable geocoding provider.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// ErrNoResults means the provider answered successfully with nothing usable.
	// It is a normal outcome, not a fault.
	ErrNoResults = errors.New("no geocoding results")

	ErrEmptyAddress  = errors.New("address must not be empty")
	ErrMissingAPIKey = errors.New("geocoding API key is not configured")
)

// UpstreamFailure wraps anything that went wrong talking to the provider.
type UpstreamFailure struct {
	Reason string
	Err    error
}

func (e *UpstreamFailure) Error() string {
	return e.Reason
}

func (e *UpstreamFailure) Unwrap() error {
	return e.Err
}

// Fetcher is the slice of the upstream client the resolver needs.
type Fetcher interface {
	FetchJSON(ctx context.Context, rawURL string) (any, error)
}

// Resolver turns addresses into coordinates.
type Resolver struct {
	provider Provider
	client   Fetcher
}

// NewResolver returns a Resolver bound to one provider profile.
func NewResolver(provider Provider, client Fetcher) *Resolver {
	return &Resolver{provider: provider, client: client}
}

// Provider returns the profile the resolver queries.
func (r *Resolver) Provider() Provider {
	return r.provider
}

// Resolve returns the coordinates of the first provider result for address.
// It returns ErrNoResults when the result list is absent or empty and an
// *UpstreamFailure for HTTP, parse and network faults.
func (r *Resolver) Resolve(ctx context.Context, address string) (Coordinates, error) {
	if strings.TrimSpace(address) == "" {
		return Coordinates{}, ErrEmptyAddress
	}

	if r.provider.RequireKey && r.provider.APIKey == "" {
		return Coordinates{}, &UpstreamFailure{Reason: ErrMissingAPIKey.Error(), Err: ErrMissingAPIKey}
	}

	target, err := r.provider.URL(address)
	if err != nil {
		return Coordinates{}, &UpstreamFailure{Reason: err.Error(), Err: err}
	}

	body, err := r.client.FetchJSON(ctx, target)
	if err != nil {
		return Coordinates{}, &UpstreamFailure{Reason: err.Error(), Err: err}
	}

	results := extractResults(body, r.provider.ResultPath)
	if len(results) == 0 {
		log.Debug("geocoding returned no results", "provider", r.provider.Name, "address", address)
		return Coordinates{}, ErrNoResults
	}

	coords, err := coordinatesFrom(results[0])
	if err != nil {
		return Coordinates{}, &UpstreamFailure{
			Reason: fmt.Sprintf("unexpected geocoding result: %v", err),
			Err:    err,
		}
	}

	if err := coords.Validate(); err != nil {
		return Coordinates{}, &UpstreamFailure{
			Reason: fmt.Sprintf("geocoding result out of range: %v", err),
			Err:    err,
		}
	}

	return coords, nil
}
