package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/segmentio/ksuid"

	"vidhost/console/internal/models"
)

// ErrNotFound indicates no record has been persisted under the requested key.
var ErrNotFound = errors.New("storage: record not found")

const (
	sessionFile = "session.json"
	prefsFile   = "prefs.json"
	deviceFile  = "device"
)

// PersistedSession is the durable mirror of the in-memory session. User and
// token travel together; a record with either half missing is invalid.
type PersistedSession struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type Preferences struct {
	Theme    string `json:"theme"`
	PageSize int    `json:"pageSize"`
}

// Storage keeps client state in a directory of small files. The session and
// preferences live in separate files so clearing auth never touches theme or
// paging choices.
type Storage struct {
	dir string
}

// Open ensures the state directory exists. An empty dir falls back to the
// user config directory.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "vidhost-console")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) ReadSession() (PersistedSession, error) {
	var ps PersistedSession
	if err := s.readJSON(sessionFile, &ps); err != nil {
		return PersistedSession{}, err
	}
	return ps, nil
}

func (s *Storage) WriteSession(ps PersistedSession) error {
	return s.writeJSON(sessionFile, ps)
}

// ClearSession removes only the session record. Preferences and the device
// id survive a sign-out.
func (s *Storage) ClearSession() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Storage) ReadPreferences() (Preferences, error) {
	var p Preferences
	if err := s.readJSON(prefsFile, &p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func (s *Storage) WritePreferences(p Preferences) error {
	return s.writeJSON(prefsFile, p)
}

// DeviceID returns the stable per-install identifier, generating one on
// first use.
func (s *Storage) DeviceID() (string, error) {
	path := filepath.Join(s.dir, deviceFile)
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := ksuid.New().String()
	if err := renameio.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return id, nil
}

func (s *Storage) readJSON(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Storage) writeJSON(name string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	// Atomic replace: a crash mid-write must not corrupt the previous record.
	if err := renameio.WriteFile(filepath.Join(s.dir, name), data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
