package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func userNameKey(username string) string { return "user:name:" + username }
func userIDKey(id string) string         { return "user:id:" + id }

// CreateUser registers a new account.
func (s *Store) CreateUser(username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(userNameKey(username))); err == nil {
			return ErrUserExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := setJSON(txn, userNameKey(username), user); err != nil {
			return err
		}
		return txn.Set([]byte(userIDKey(user.ID)), []byte(username))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password.
func (s *Store) Authenticate(username, password string) (*User, error) {
	var user User
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userNameKey(username), &user)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser looks a user up by id.
func (s *Store) GetUser(id string) (*User, error) {
	var user User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userIDKey(id)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		name, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, userNameKey(string(name)), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func revokedKey(jti string) string { return "revoked:" + jti }

// RevokeToken marks a token id as revoked until its expiry.
func (s *Store) RevokeToken(jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(revokedKey(jti)), nil).WithTTL(ttl))
	})
}

// IsRevoked reports whether a token id was revoked.
func (s *Store) IsRevoked(jti string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedKey(jti)))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
