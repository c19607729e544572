package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

type (
	// CredentialStore persists the bearer credential across process
	// restarts. A missing credential loads as the empty string, not an
	// error.
	CredentialStore interface {
		Load() (string, error)
		Save(token string) error
		Clear() error
	}

	// FileCredentialStore keeps the credential in a JSON file under the
	// user's config directory.
	FileCredentialStore struct {
		path string
	}

	storedCredential struct {
		Token string `json:"token"`
	}
)

func NewFileCredentialStore() (*FileCredentialStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewFileCredentialStoreAt(filepath.Join(dir, "bookswap", "credentials.json")), nil
}

func NewFileCredentialStoreAt(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

func (s *FileCredentialStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var cred storedCredential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return "", err
	}
	return cred.Token, nil
}

func (s *FileCredentialStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(storedCredential{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileCredentialStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
