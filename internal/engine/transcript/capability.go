package transcript

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedAdapter is returned for adapters exposing neither surface.
var ErrUnsupportedAdapter = errors.New("transcript: adapter implements neither Source nor LegacySource")

// Capability is the surface an adapter was detected to expose.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityModern
	CapabilityLegacy
)

func (c Capability) String() string {
	switch c {
	case CapabilityModern:
		return "modern"
	case CapabilityLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// DetectCapability reports which surface adapter exposes. The modern
// surface wins when both are present.
func DetectCapability(adapter any) Capability {
	switch adapter.(type) {
	case Source:
		return CapabilityModern
	case LegacySource:
		return CapabilityLegacy
	default:
		return CapabilityNone
	}
}

// surface is what the cascade drives, whatever the adapter exposes.
type surface interface {
	fetch(ctx context.Context, videoID string, languages []string) ([]Record, error)
	list(ctx context.Context, videoID string) (Listing, error)
}

type modernSurface struct{ src Source }

func (m modernSurface) fetch(ctx context.Context, videoID string, languages []string) ([]Record, error) {
	return m.src.Fetch(ctx, videoID, languages)
}

func (m modernSurface) list(ctx context.Context, videoID string) (Listing, error) {
	return m.src.List(ctx, videoID)
}

type legacySurface struct{ src LegacySource }

func (l legacySurface) fetch(ctx context.Context, videoID string, languages []string) ([]Record, error) {
	rows, err := l.src.GetTranscript(ctx, videoID, languages)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out, nil
}

func (l legacySurface) list(ctx context.Context, videoID string) (Listing, error) {
	return l.src.ListTranscripts(ctx, videoID)
}

func newSurface(adapter any) (surface, Capability, error) {
	switch c := DetectCapability(adapter); c {
	case CapabilityModern:
		return modernSurface{src: adapter.(Source)}, c, nil
	case CapabilityLegacy:
		return legacySurface{src: adapter.(LegacySource)}, c, nil
	default:
		return nil, c, fmt.Errorf("%w: %T", ErrUnsupportedAdapter, adapter)
	}
}
