package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAccounts() *Accounts {
	return NewAccounts(WithHashCost(bcrypt.MinCost))
}

func registration(email string) Registration {
	return Registration{Name: "Asha", Email: email, Password: "secret", ConfirmPassword: "secret"}
}

func TestRegister_AssignsSequentialIDs(t *testing.T) {
	a := newTestAccounts()

	first, err := a.Register(registration("asha@example.com"))
	require.NoError(t, err)
	second, err := a.Register(registration("ravi@example.com"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "asha@example.com", first.Email)
	assert.Equal(t, "Asha", first.Name)
}

func TestRegister_Validation(t *testing.T) {
	a := newTestAccounts()
	_, err := a.Register(registration("taken@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		reg     Registration
		wantErr error
	}{
		{"password mismatch", Registration{Name: "A", Email: "a@example.com", Password: "x", ConfirmPassword: "y"}, ErrPasswordMismatch},
		{"duplicate email", registration("taken@example.com"), ErrEmailTaken},
		{"duplicate email with spaces", registration("  taken@example.com "), ErrEmailTaken},
		{"missing name", Registration{Email: "a@example.com", Password: "x", ConfirmPassword: "x"}, ErrMissingFields},
		{"missing email", Registration{Name: "A", Password: "x", ConfirmPassword: "x"}, ErrMissingFields},
		{"missing password", Registration{Name: "A", Email: "a@example.com"}, ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(tt.reg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	a := newTestAccounts()
	registered, err := a.Register(registration("asha@example.com"))
	require.NoError(t, err)

	user, err := a.Authenticate("asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered, user)

	_, err = a.Authenticate("asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate("nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
