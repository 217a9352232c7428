// Package carrier exposes the device/home-network context consulted by the
// international-call policy.
package carrier

import "context"

// Info reports home-network facts about the carrier the device is
// registered on.
type Info interface {
	// HomeCountry returns the ISO 3166-1 alpha-2 region of the home network.
	HomeCountry(ctx context.Context) (string, error)
}

// StaticInfo serves the home country from configuration.
type StaticInfo struct {
	country string
}

// NewStaticInfo builds a config-backed carrier info source.
func NewStaticInfo(country string) *StaticInfo {
	return &StaticInfo{country: country}
}

// HomeCountry returns the configured region.
func (s *StaticInfo) HomeCountry(context.Context) (string, error) {
	return s.country, nil
}
