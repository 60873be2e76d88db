package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/v2"
	"github.com/rs/zerolog"

	"sealchat/internal/domain"
)

// PebbleStore keeps the endpoint in a PebbleDB under dir/pebble.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) the store under dir.
func OpenPebble(dir string, log zerolog.Logger) (*PebbleStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := pebble.Open(filepath.Join(dir, "pebble"), &pebble.Options{
		Logger: pebbleLogger{log.With().Str("component", "pebble").Logger()},
	})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// SaveEndpoint records endpoint, syncing to disk.
func (s *PebbleStore) SaveEndpoint(endpoint domain.Endpoint) error {
	if err := s.db.Set([]byte(EndpointKey), []byte(endpoint), pebble.Sync); err != nil {
		return fmt.Errorf("save endpoint: %w", err)
	}
	return nil
}

// LoadEndpoint returns the recorded endpoint, if any.
func (s *PebbleStore) LoadEndpoint() (domain.Endpoint, bool, error) {
	v, closer, err := s.db.Get([]byte(EndpointKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load endpoint: %w", err)
	}
	defer closer.Close()
	if len(v) == 0 {
		return "", false, nil
	}
	// v is only valid until closer is closed.
	return domain.Endpoint(string(v)), true, nil
}

// ClearEndpoint forgets the recorded endpoint.
func (s *PebbleStore) ClearEndpoint() error {
	if err := s.db.Delete([]byte(EndpointKey), pebble.Sync); err != nil {
		return fmt.Errorf("clear endpoint: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *PebbleStore) Close() error { return s.db.Close() }

// pebbleLogger routes pebble's own logging through zerolog.
type pebbleLogger struct{ log zerolog.Logger }

func (l pebbleLogger) Infof(format string, args ...any)  { l.log.Debug().Msgf(format, args...) }
func (l pebbleLogger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }
func (l pebbleLogger) Fatalf(format string, args ...any) { l.log.Fatal().Msgf(format, args...) }

var _ domain.EndpointStore = (*PebbleStore)(nil)
