package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/geowhisper/internal/adapters/durable/file"
	tomlstore "github.com/bnema/geowhisper/internal/adapters/durable/toml"
	"github.com/bnema/geowhisper/internal/ports"
	"github.com/spf13/viper"
)

// Store writes to primary and falls back to fallback when primary fails for
// any reason other than a done context.
type Store struct {
	primary  ports.DurableStore
	fallback ports.DurableStore
}

var _ ports.DurableStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary durable store is nil")
	errNilFallbackStore = errors.New("fallback durable store is nil")
)

func NewStore(primary ports.DurableStore, fallback ports.DurableStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.DurableStore, fallback ports.DurableStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewTOMLFirstWithFileFallback chains the TOML document configured in cfg
// with a directory of per-key files under fileRoot.
func NewTOMLFirstWithFileFallback(cfg *viper.Viper, fileRoot string) (*Store, error) {
	primary, err := tomlstore.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	return NewStoreChecked(primary, filestore.NewStore(fileRoot))
}

// Save writes to primary. A failed primary write lands in fallback instead;
// a successful one drops any fallback entry for key so it cannot shadow the
// newer value on Load.
func (s *Store) Save(ctx context.Context, key string, value string) error {
	err := s.primary.Save(ctx, key, value)
	if err == nil {
		return s.dropFallbackEntry(ctx, key)
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Save(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend save failed: %w; fallback backend save failed: %w", err, fallbackErr)
}

// Load prefers fallback: it only holds a key whose latest Save missed the
// primary.
func (s *Store) Load(ctx context.Context, key string) (string, bool, error) {
	fallbackValue, fallbackFound, fallbackErr := s.fallback.Load(ctx, key)
	if fallbackErr == nil && fallbackFound {
		return fallbackValue, true, nil
	}
	if fallbackErr != nil && shouldSkipFallback(fallbackErr) {
		return "", false, fallbackErr
	}

	value, found, err := s.primary.Load(ctx, key)
	switch {
	case err == nil && (found || fallbackErr == nil):
		return value, found, nil
	case err == nil:
		return "", false, fmt.Errorf("fallback backend load failed: %w", fallbackErr)
	case shouldSkipFallback(err):
		return "", false, err
	case fallbackErr == nil:
		return "", false, nil
	}

	return "", false, fmt.Errorf("primary backend load failed: %w; fallback backend load failed: %w", err, fallbackErr)
}

// Clear empties both backends.
func (s *Store) Clear(ctx context.Context) error {
	err := s.primary.Clear(ctx)
	if err != nil && shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Clear(ctx)
	switch {
	case err != nil && fallbackErr != nil:
		return fmt.Errorf("primary backend clear failed: %w; fallback backend clear failed: %w", err, fallbackErr)
	case err != nil:
		return fmt.Errorf("primary backend clear failed: %w", err)
	case fallbackErr != nil:
		return fmt.Errorf("fallback backend clear failed: %w", fallbackErr)
	}

	return nil
}

type keyDeleter interface {
	Delete(ctx context.Context, key string) error
}

func (s *Store) dropFallbackEntry(ctx context.Context, key string) error {
	deleter, ok := s.fallback.(keyDeleter)
	if !ok {
		return nil
	}
	if err := deleter.Delete(ctx, key); err != nil {
		return fmt.Errorf("drop stale fallback entry %q: %w", key, err)
	}

	return nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
