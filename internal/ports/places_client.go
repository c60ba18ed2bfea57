package ports

import (
	"context"

	"github.com/bnema/geowhisper/internal/domain"
)

type PlacesClient interface {
	FetchNearby(ctx context.Context, center domain.Coordinate, radiusMeters float64, categories []string) ([]domain.PointOfInterest, error)
}
