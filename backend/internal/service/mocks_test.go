package service

import (
	"context"
	"errors"
	"sync"

	"github.com/medina-starter/accounts/shared/domain"
	internal_errors "github.com/medina-starter/accounts/shared/errors"
)

// --- Mocks ---

type MockStorage struct {
	EmailExistsFunc                func(ctx context.Context, email domain.Email) (bool, error)
	AccountByEmailFunc             func(ctx context.Context, email domain.Email) (domain.Account, error)
	AccountByIdFunc                func(ctx context.Context, id domain.UserId) (domain.Account, error)
	AccountByVerificationTokenFunc func(ctx context.Context, token string) (domain.Account, error)
	SaveAccountFunc                func(ctx context.Context, account domain.Account) (domain.Account, error)
	MarkEmailVerifiedFunc          func(ctx context.Context, id domain.UserId, token string) error
	ListAccountsFunc               func(ctx context.Context, page domain.Page) (domain.AccountPage, error)
	DeleteAccountFunc              func(ctx context.Context, id domain.UserId) error
}

var errNotFound = internal_errors.New(internal_errors.KindNotFound, "User not found")

func (m *MockStorage) EmailExists(ctx context.Context, email domain.Email) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	return false, nil
}

func (m *MockStorage) AccountByEmail(ctx context.Context, email domain.Email) (domain.Account, error) {
	if m.AccountByEmailFunc != nil {
		return m.AccountByEmailFunc(ctx, email)
	}
	return domain.Account{}, errNotFound
}

func (m *MockStorage) AccountById(ctx context.Context, id domain.UserId) (domain.Account, error) {
	if m.AccountByIdFunc != nil {
		return m.AccountByIdFunc(ctx, id)
	}
	return domain.Account{}, errNotFound
}

func (m *MockStorage) AccountByVerificationToken(ctx context.Context, token string) (domain.Account, error) {
	if m.AccountByVerificationTokenFunc != nil {
		return m.AccountByVerificationTokenFunc(ctx, token)
	}
	return domain.Account{}, errNotFound
}

func (m *MockStorage) SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	if m.SaveAccountFunc != nil {
		return m.SaveAccountFunc(ctx, account)
	}
	if account.Id == 0 {
		account.Id = 1
	}
	return account, nil
}

func (m *MockStorage) MarkEmailVerified(ctx context.Context, id domain.UserId, token string) error {
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, id, token)
	}
	return nil
}

func (m *MockStorage) ListAccounts(ctx context.Context, page domain.Page) (domain.AccountPage, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, page)
	}
	return domain.AccountPage{Page: page}, nil
}

func (m *MockStorage) DeleteAccount(ctx context.Context, id domain.UserId) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, id)
	}
	return nil
}

// MockHasher "hashes" by prefixing, so tests stay fast.
type MockHasher struct {
	HashFunc  func(secret string) (string, error)
	hashCalls int
}

func (m *MockHasher) Hash(secret string) (string, error) {
	m.hashCalls++
	if m.HashFunc != nil {
		return m.HashFunc(secret)
	}
	return "hashed:" + secret, nil
}

func (m *MockHasher) Compare(hash, secret string) error {
	if hash != "hashed:"+secret {
		return errors.New("mismatch")
	}
	return nil
}

type sentVerification struct {
	Recipient domain.Email
	Link      string
}

type MockNotifier struct {
	mu   sync.Mutex
	Sent []sentVerification
	Err  error
}

func (m *MockNotifier) SendVerification(ctx context.Context, recipient domain.Email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentVerification{Recipient: recipient, Link: link})
	return m.Err
}

type MockJwt struct {
	NewTokenFunc func(account domain.Account) (string, error)
}

func (m *MockJwt) NewToken(account domain.Account) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(account)
	}
	return "test_token", nil
}

type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds domain.Credentials) error
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds domain.Credentials) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	return nil
}

type MockVerifier struct {
	Notified []domain.Email
}

func (m *MockVerifier) NewVerification() *domain.Verification {
	return domain.NewVerification("verifier-token", fixedNow.Add(VerificationTTL))
}

func (m *MockVerifier) NotifyVerification(ctx context.Context, recipient domain.Email, v *domain.Verification) {
	m.Notified = append(m.Notified, recipient)
}
