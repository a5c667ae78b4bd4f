package session

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Registration is the submitted sign-up form.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type account struct {
	user         domain.User
	passwordHash []byte
}

// Accounts is the in-memory registry behind the demo login. It exists only to
// toggle the "current user" flag and provides no real security.
type Accounts struct {
	mu    sync.RWMutex
	users []account
	cost  int
}

type AccountsOption func(*Accounts)

// WithHashCost sets the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) AccountsOption {
	return func(a *Accounts) { a.cost = cost }
}

func NewAccounts(opts ...AccountsOption) *Accounts {
	a := &Accounts{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds a user. Ids are assigned sequentially from 1.
func (a *Accounts) Register(r Registration) (domain.User, error) {
	email := strings.TrimSpace(r.Email)
	name := strings.TrimSpace(r.Name)
	if name == "" || email == "" || r.Password == "" {
		return domain.User{}, ErrMissingFields
	}
	if r.Password != r.ConfirmPassword {
		return domain.User{}, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), a.cost)
	if err != nil {
		return domain.User{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, acc := range a.users {
		if acc.user.Email == email {
			return domain.User{}, ErrEmailTaken
		}
	}

	user := domain.User{
		ID:    len(a.users) + 1,
		Name:  name,
		Email: email,
	}
	a.users = append(a.users, account{user: user, passwordHash: hash})
	return user, nil
}

// Authenticate returns the user whose email and password both match.
func (a *Accounts) Authenticate(email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)

	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, acc := range a.users {
		if acc.user.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
			return domain.User{}, ErrInvalidCredentials
		}
		return acc.user, nil
	}
	return domain.User{}, ErrInvalidCredentials
}
