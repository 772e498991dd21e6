package service

import (
	"context"
	"sync"

	"github.com/medina-starter/accounts/shared/domain"
	"github.com/medina-starter/accounts/shared/errors"
)

type CredentialStorage interface {
	AccountByEmail(ctx context.Context, email domain.Email) (domain.Account, error)
}

// PasswordAuthenticator verifies credentials against the stored bcrypt hash.
type PasswordAuthenticator struct {
	storage CredentialStorage
	hasher  PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewPasswordAuthenticator(storage CredentialStorage, hasher PasswordHasher) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: storage, hasher: hasher}
}

func (p *PasswordAuthenticator) Authenticate(ctx context.Context, creds domain.Credentials) error {
	badCredentials := errors.New(errors.KindUnauthorized, "Bad credentials")

	account, err := p.storage.AccountByEmail(ctx, creds.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			// keep unknown emails as slow as wrong passwords
			_ = p.hasher.Compare(p.dummy(), creds.Password)
			return badCredentials
		}
		return err
	}

	if err := p.hasher.Compare(account.PassHash, creds.Password); err != nil {
		return errors.Wrap(errors.KindUnauthorized, badCredentials.Message, err)
	}
	return nil
}

func (p *PasswordAuthenticator) dummy() string {
	p.dummyOnce.Do(func() {
		p.dummyHash, _ = p.hasher.Hash("dummy-password-for-timing")
	})
	return p.dummyHash
}
