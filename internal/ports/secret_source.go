package ports

import "context"

// SecretSource resolves named secrets such as the places API key.
type SecretSource interface {
	Lookup(ctx context.Context, name string) (string, error)
}
