package ports

import "context"

// DurableStore is opaque key/value persistence. Load reports found=false for
// a key that was never saved.
type DurableStore interface {
	Save(ctx context.Context, key string, value string) error
	Load(ctx context.Context, key string) (value string, found bool, err error)
	Clear(ctx context.Context) error
}
