package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reclaimhq/reclaim/internal/localstore"
	"github.com/reclaimhq/reclaim/internal/model"
)

// Account errors callers must distinguish.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// userRecord is the persisted account shape; unlike model.User it carries
// the password hash through JSON serialization.
type userRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}

func (r userRecord) user() *model.User {
	return &model.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// RegisterUser creates a reporter account. Accounts always live in the local
// store, regardless of which item backend is active.
func (s *Store) RegisterUser(ctx context.Context, email, password, name string) (*model.User, error) {
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	record := userRecord{
		ID:           "user_" + uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	users = append(users, record)

	if err := s.saveUsers(ctx, users); err != nil {
		return nil, err
	}
	return record.user(), nil
}

// LoginUser verifies credentials and returns the matching account.
func (s *Store) LoginUser(ctx context.Context, email, password string) (*model.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return u.user(), nil
	}
	return nil, ErrInvalidCredentials
}

// UserByEmail returns an account, or nil when absent.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u.user(), nil
		}
	}
	return nil, nil
}

func (s *Store) loadUsers(ctx context.Context) ([]userRecord, error) {
	raw, ok, err := s.local.Get(ctx, localstore.UsersKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var users []userRecord
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decoding local users: %w", err)
	}
	return users, nil
}

func (s *Store) saveUsers(ctx context.Context, users []userRecord) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encoding local users: %w", err)
	}
	return s.local.Put(ctx, localstore.UsersKey, string(raw))
}
