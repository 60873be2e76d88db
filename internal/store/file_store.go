package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sealchat/internal/domain"
)

const stateFilename = "session.json"

type fileState struct {
	Values map[string]string `json:"values"`
}

// FileStore keeps the endpoint in dir/session.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path() string { return filepath.Join(s.dir, stateFilename) }

// SaveEndpoint records endpoint.
func (s *FileStore) SaveEndpoint(endpoint domain.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := fileState{Values: map[string]string{}}
	if _, err := readJSON(s.path(), &st); err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	if st.Values == nil {
		st.Values = map[string]string{}
	}
	st.Values[EndpointKey] = endpoint.String()
	return writeJSON(s.path(), st, 0o600)
}

// LoadEndpoint returns the recorded endpoint, if any.
func (s *FileStore) LoadEndpoint() (domain.Endpoint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st fileState
	ok, err := readJSON(s.path(), &st)
	if err != nil {
		return "", false, fmt.Errorf("read state: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	v, ok := st.Values[EndpointKey]
	if !ok || v == "" {
		return "", false, nil
	}
	return domain.Endpoint(v), true, nil
}

// ClearEndpoint forgets the recorded endpoint.
func (s *FileStore) ClearEndpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st fileState
	ok, err := readJSON(s.path(), &st)
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	if !ok {
		return nil
	}
	delete(st.Values, EndpointKey)
	if len(st.Values) == 0 {
		return removeFile(s.path())
	}
	return writeJSON(s.path(), st, 0o600)
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error { return nil }

var _ domain.EndpointStore = (*FileStore)(nil)
