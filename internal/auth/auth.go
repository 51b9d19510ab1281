// Package auth adalah kolaborator login admin: cek kredensial statis yang
// menghasilkan token sesi opaque. Token disimpan di Redis dengan TTL sebagai
// padanan sesi tab browser.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arigading/go-catalog-checkout/internal/redisx"
)

var ErrInvalidLogin = errors.New("auth: invalid email or password")

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Service struct {
	rdb      *redis.Client
	email    string
	password string
}

func NewService(rdb *redis.Client, email, password string) *Service {
	return &Service{rdb: rdb, email: email, password: password}
}

func (s *Service) Login(ctx context.Context, email, password string) (Credentials, error) {
	okEmail := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	okPass := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !okEmail || !okPass {
		return Credentials{}, ErrInvalidLogin
	}

	cred := Credentials{
		Token: uuid.NewString(),
		User:  User{Email: email, Name: "Admin"},
	}
	b, _ := json.Marshal(cred.User)
	key := fmt.Sprintf(redisx.KeyAdminSession, cred.Token)
	if err := s.rdb.Set(ctx, key, b, redisx.TTLAdminSession).Err(); err != nil {
		return Credentials{}, fmt.Errorf("auth: store session: %w", err)
	}
	return cred, nil
}

// Verify mengembalikan user untuk token yang masih hidup.
func (s *Service) Verify(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, ErrInvalidLogin
	}
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(redisx.KeyAdminSession, token)).Result()
	if errors.Is(err, redis.Nil) {
		return User{}, ErrInvalidLogin
	}
	if err != nil {
		return User{}, fmt.Errorf("auth: verify session: %w", err)
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("auth: decode session: %w", err)
	}
	return u, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(redisx.KeyAdminSession, token)).Err()
}
