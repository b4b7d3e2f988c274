package blueskyimpl

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgball2608/bluesky-likes-crawler/internal/bluesky"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
	"github.com/zalando/go-keyring"
)

const keyringService = "bluesky-likes-crawler"

// FileStore keeps the session in a plain file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ bluesky.SessionStore = (*FileStore)(nil)

func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", bluesky.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}
	return string(data), nil
}

func (f *FileStore) Save(session string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(session), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// KeyringStore keeps the session in the system keychain, one entry per handle.
type KeyringStore struct {
	account string
}

func NewKeyringStore(handle string) *KeyringStore {
	return &KeyringStore{account: handle}
}

var _ bluesky.SessionStore = (*KeyringStore)(nil)

func (k *KeyringStore) Load() (string, error) {
	session, err := keyring.Get(keyringService, k.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", bluesky.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to retrieve from keyring: %w", err)
	}
	return session, nil
}

func (k *KeyringStore) Save(session string) error {
	if err := keyring.Set(keyringService, k.account, session); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

// NewStore picks the session store named by BLUESKY_SESSION_STORE.
func NewStore(cfg *config.Config) (bluesky.SessionStore, error) {
	switch cfg.Bluesky.SessionStore {
	case "", "file":
		return NewFileStore(cfg.Bluesky.SessionPath), nil
	case "keyring":
		return NewKeyringStore(FullHandle(cfg.Bluesky.Handle)), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Bluesky.SessionStore)
	}
}
