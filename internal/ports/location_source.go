package ports

import (
	"context"

	"github.com/bnema/geowhisper/internal/domain"
)

// LocationSource streams observations until ctx is done or the source runs
// dry, then closes the channel. Watch returns domain.ErrPermissionDenied when
// positions are not available at all.
type LocationSource interface {
	Watch(ctx context.Context) (<-chan domain.Location, error)
}
