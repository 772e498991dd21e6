package service

import (
	"context"
	"errors"
	"testing"

	"github.com/medina-starter/accounts/shared/domain"
	internal_errors "github.com/medina-starter/accounts/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	storage := &MockStorage{
		AccountByEmailFunc: func(ctx context.Context, email domain.Email) (domain.Account, error) {
			if email == "ada@example.com" {
				return domain.Account{Id: 1, Email: email, PassHash: "hashed:secret"}, nil
			}
			return domain.Account{}, errNotFound
		},
	}
	hasher := &MockHasher{}
	p := NewPasswordAuthenticator(storage, hasher)

	t.Run("correct password", func(t *testing.T) {
		assert.NoError(t, p.Authenticate(ctx, domain.Credentials{Email: "ada@example.com", Password: "secret"}))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := p.Authenticate(ctx, domain.Credentials{Email: "ada@example.com", Password: "nope"})
		assert.True(t, internal_errors.IsUnauthorized(err))
	})

	t.Run("unknown email runs a dummy comparison", func(t *testing.T) {
		before := hasher.hashCalls
		err := p.Authenticate(ctx, domain.Credentials{Email: "ghost@example.com", Password: "secret"})
		assert.True(t, internal_errors.IsUnauthorized(err))

		err = p.Authenticate(ctx, domain.Credentials{Email: "ghost@example.com", Password: "secret"})
		assert.True(t, internal_errors.IsUnauthorized(err))
		assert.Equal(t, before+1, hasher.hashCalls, "dummy hash is computed once")
	})

	t.Run("unknown and wrong password are indistinguishable", func(t *testing.T) {
		unknown := p.Authenticate(ctx, domain.Credentials{Email: "ghost@example.com", Password: "x"})
		wrong := p.Authenticate(ctx, domain.Credentials{Email: "ada@example.com", Password: "x"})
		assert.Equal(t, internal_errors.Classify(unknown).Message, internal_errors.Classify(wrong).Message)
	})

	t.Run("store failure passes through unclassified", func(t *testing.T) {
		failing := NewPasswordAuthenticator(&MockStorage{
			AccountByEmailFunc: func(ctx context.Context, email domain.Email) (domain.Account, error) {
				return domain.Account{}, errors.New("db down")
			},
		}, hasher)
		err := failing.Authenticate(ctx, domain.Credentials{Email: "ada@example.com", Password: "secret"})
		require.Error(t, err)
		assert.False(t, internal_errors.IsUnauthorized(err))
	})
}
