package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

func TestAuthenticate(t *testing.T) {
	store := NewStore([]domain.Credential{
		{Name: "Acme", Key: "secret-1"},
		{Name: "admin", Key: "root-key"},
	})

	u, err := store.Authenticate("Acme", "secret-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", u.Name)
	assert.False(t, u.Admin)

	u, err = store.Authenticate("admin", "root-key")
	require.NoError(t, err)
	assert.True(t, u.Admin)
}

func TestAuthenticateTrimsInput(t *testing.T) {
	store := NewStore([]domain.Credential{{Name: "Acme", Key: "secret-1"}})

	_, err := store.Authenticate(" Acme ", " secret-1 ")
	assert.NoError(t, err)
}

func TestAuthenticateRejects(t *testing.T) {
	store := NewStore([]domain.Credential{{Name: "Acme", Key: "secret-1"}})

	_, err := store.Authenticate("Acme", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.Authenticate("Nobody", "secret-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.Authenticate("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLaterDuplicateWins(t *testing.T) {
	store := NewStore([]domain.Credential{
		{Name: "Acme", Key: "old"},
		{Name: "Acme", Key: "new"},
	})

	_, err := store.Authenticate("Acme", "old")
	assert.Error(t, err)
	_, err = store.Authenticate("Acme", "new")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}
