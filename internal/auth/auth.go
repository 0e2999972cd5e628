// backend-go/internal/auth/auth.go
package auth

import (
	"errors"
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// AdminName is the reserved login that unlocks the all-clients view.
const AdminName = "admin"

var ErrInvalidCredentials = errors.New("invalid name or secret key")

// User is an authenticated dashboard identity.
type User struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// Store checks logins against the credentials sheet. Lookups are exact on
// the name; keys compare after trimming, matching what the sheet owners
// paste in.
type Store struct {
	keys map[string]string
}

// NewStore indexes the snapshot's credential rows. Later duplicates of a
// name win, mirroring a sheet edit that appends a replacement row.
func NewStore(creds []domain.Credential) *Store {
	keys := make(map[string]string, len(creds))
	for _, c := range creds {
		keys[c.Name] = c.Key
	}
	return &Store{keys: keys}
}

// Authenticate resolves a (name, key) pair to a user. Unknown names and
// wrong keys are indistinguishable to the caller.
func (s *Store) Authenticate(name, key string) (User, error) {
	name = strings.TrimSpace(name)
	key = strings.TrimSpace(key)
	if name == "" || key == "" {
		return User{}, ErrInvalidCredentials
	}

	want, ok := s.keys[name]
	if !ok || want != key {
		return User{}, ErrInvalidCredentials
	}
	return User{Name: name, Admin: name == AdminName}, nil
}

// Len reports the number of known logins.
func (s *Store) Len() int { return len(s.keys) }
