package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medina-starter/accounts/shared/domain"
	"github.com/medina-starter/accounts/shared/errors"
	"github.com/medina-starter/accounts/shared/logger"
	"github.com/medina-starter/accounts/shared/utils"
)

// VerificationTTL is how long a verification link stays valid.
const VerificationTTL = 24 * time.Hour

const notifyTimeout = 10 * time.Second

type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) error
	Confirm(ctx context.Context, token string) (domain.VerificationStatus, error)
	Login(ctx context.Context, creds domain.Credentials) (domain.AccessToken, error)
	EmailExists(ctx context.Context, email domain.Email) (bool, error)
}

type AuthStorage interface {
	EmailExists(ctx context.Context, email domain.Email) (bool, error)
	AccountByEmail(ctx context.Context, email domain.Email) (domain.Account, error)
	AccountByVerificationToken(ctx context.Context, token string) (domain.Account, error)
	SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	MarkEmailVerified(ctx context.Context, id domain.UserId, token string) error
}

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

type Notifier interface {
	SendVerification(ctx context.Context, recipient domain.Email, link string) error
}

type Jwt interface {
	NewToken(account domain.Account) (string, error)
}

// Authenticator checks an email and password pair against the stored hash.
type Authenticator interface {
	Authenticate(ctx context.Context, creds domain.Credentials) error
}

type AuthConfig struct {
	VerificationBaseURL string
	VerificationTTL     time.Duration
}

type Auth struct {
	storage       AuthStorage
	hasher        PasswordHasher
	notifier      Notifier
	jwt           Jwt
	authenticator Authenticator
	cfg           AuthConfig

	now      func() time.Time
	newToken func() string
}

func NewAuth(storage AuthStorage, hasher PasswordHasher, notifier Notifier, jwt Jwt, authenticator Authenticator, cfg AuthConfig) *Auth {
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = VerificationTTL
	}
	return &Auth{
		storage:       storage,
		hasher:        hasher,
		notifier:      notifier,
		jwt:           jwt,
		authenticator: authenticator,
		cfg:           cfg,
		now:           time.Now,
		newToken:      NewVerificationToken,
	}
}

// NewVerificationToken returns a random 32 character hex token.
func NewVerificationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NormalizeEmail is the single place where email case and padding are
// folded, so that uniqueness is case-insensitive.
func NormalizeEmail(email domain.Email) domain.Email {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and mails its verification link.
// Delivery failures are logged and never fail the registration.
func (a *Auth) Register(ctx context.Context, reg domain.Registration) error {
	email := NormalizeEmail(reg.Email)

	exists, err := a.storage.EmailExists(ctx, email)
	if err != nil {
		return internal("check email existence", err)
	}
	if exists {
		logger.Log.Info("registration rejected, email exists", "email_hash", utils.HashSHA256(email))
		return errors.New(errors.KindConflict, "Email already exists")
	}

	passHash, err := a.hasher.Hash(reg.Password)
	if err != nil {
		return internal("hash password", err)
	}

	verification := a.NewVerification()
	account, err := a.storage.SaveAccount(ctx, domain.Account{
		Email:        email,
		Name:         reg.Name,
		MobileNumber: reg.MobileNumber,
		Address:      reg.Address,
		PassHash:     passHash,
		Verification: verification,
		CreatedAt:    a.now().UTC(),
	})
	if err != nil {
		if errors.IsConflict(err) {
			return errors.Wrap(errors.KindConflict, "Email already exists", err)
		}
		return internal("save account", err)
	}
	logger.Log.Info("account registered", "user_id", account.Id)

	a.NotifyVerification(ctx, account.Email, verification)
	return nil
}

// NewVerification issues a fresh token that expires after the configured TTL.
func (a *Auth) NewVerification() *domain.Verification {
	return domain.NewVerification(a.newToken(), a.now().Add(a.cfg.VerificationTTL))
}

// NotifyVerification mails the confirmation link for v.
func (a *Auth) NotifyVerification(ctx context.Context, recipient domain.Email, v *domain.Verification) {
	a.notify(ctx, recipient, a.verificationLink(v.Token))
}

func (a *Auth) notify(ctx context.Context, recipient domain.Email, link string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := a.notifier.SendVerification(ctx, recipient, link); err != nil {
		logger.Log.Warn("failed to send verification email", "error", err)
	}
}

func (a *Auth) verificationLink(token string) string {
	base := a.cfg.VerificationBaseURL
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// Confirm consumes a verification token. A token can be consumed once; an
// expired token is left in place.
func (a *Auth) Confirm(ctx context.Context, token string) (domain.VerificationStatus, error) {
	invalid := errors.New(errors.KindBadRequest, "Invalid token")

	if strings.TrimSpace(token) == "" {
		return "", invalid
	}

	account, err := a.storage.AccountByVerificationToken(ctx, token)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", invalid
		}
		return "", internal("find account by verification token", err)
	}
	if account.Verification == nil {
		return "", invalid
	}

	expiry, err := account.Verification.Expiry()
	if err != nil {
		return "", invalid
	}
	if !a.now().Before(expiry) {
		return "", errors.New(errors.KindBadRequest, "Token expired")
	}

	if err := a.storage.MarkEmailVerified(ctx, account.Id, token); err != nil {
		if errors.IsNotFound(err) {
			return "", invalid
		}
		return "", internal("mark email verified", err)
	}

	logger.Log.Info("email verified", "user_id", account.Id)
	return domain.VerificationConfirmed, nil
}

// Login checks credentials first and the verified flag second, so wrong
// credentials never reveal whether an email is registered or unverified.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (domain.AccessToken, error) {
	creds.Email = NormalizeEmail(creds.Email)

	if err := a.authenticator.Authenticate(ctx, creds); err != nil {
		if errors.IsUnauthorized(err) {
			logger.Log.Info("login rejected", "email_hash", utils.HashSHA256(creds.Email))
			return domain.AccessToken{}, errors.Wrap(errors.KindUnauthorized, "Invalid credentials", err)
		}
		return domain.AccessToken{}, internal("authenticate", err)
	}

	account, err := a.storage.AccountByEmail(ctx, creds.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.AccessToken{}, errors.New(errors.KindUnauthorized, "Invalid credentials")
		}
		return domain.AccessToken{}, internal("find account by email", err)
	}
	if !account.EmailVerified {
		return domain.AccessToken{}, errors.New(errors.KindUnauthorized, "Email not verified")
	}

	token, err := a.jwt.NewToken(account)
	if err != nil {
		return domain.AccessToken{}, internal("issue token", err)
	}

	return domain.AccessToken{Token: token, TokenType: domain.TokenTypeBearer}, nil
}

func (a *Auth) EmailExists(ctx context.Context, email domain.Email) (bool, error) {
	exists, err := a.storage.EmailExists(ctx, NormalizeEmail(email))
	if err != nil {
		return false, internal("check email existence", err)
	}
	return exists, nil
}

// internal logs an unexpected collaborator failure and demotes it to a
// generic internal error. Already classified failures pass through.
func internal(op string, err error) error {
	if errors.KindOf(err) != errors.KindInternal {
		return err
	}
	if errors.IsTimeout(err) {
		logger.Log.Warn("operation timed out", "op", op, "error", err)
	} else {
		logger.Log.Error("operation failed", "op", op, "error", err)
	}
	return errors.Internal(err)
}
