package service

import (
	"context"

	"github.com/medina-starter/accounts/shared/domain"
	"github.com/medina-starter/accounts/shared/errors"
	"github.com/medina-starter/accounts/shared/logger"
)

type UserService interface {
	List(ctx context.Context, page domain.Page) (domain.AccountPage, error)
	Get(ctx context.Context, id domain.UserId) (domain.Account, error)
	Update(ctx context.Context, id domain.UserId, profile domain.Profile) (domain.Account, error)
	Delete(ctx context.Context, id domain.UserId) error
}

type UserStorage interface {
	ListAccounts(ctx context.Context, page domain.Page) (domain.AccountPage, error)
	AccountById(ctx context.Context, id domain.UserId) (domain.Account, error)
	SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	DeleteAccount(ctx context.Context, id domain.UserId) error
}

// Verifier restarts email verification for an address that has not been proven.
type Verifier interface {
	NewVerification() *domain.Verification
	NotifyVerification(ctx context.Context, recipient domain.Email, v *domain.Verification)
}

type Users struct {
	storage  UserStorage
	verifier Verifier
}

func NewUsers(storage UserStorage, verifier Verifier) *Users {
	return &Users{storage: storage, verifier: verifier}
}

func (u *Users) List(ctx context.Context, page domain.Page) (domain.AccountPage, error) {
	result, err := u.storage.ListAccounts(ctx, page.Normalize())
	if err != nil {
		return domain.AccountPage{}, userError("list accounts", err)
	}
	return result, nil
}

func (u *Users) Get(ctx context.Context, id domain.UserId) (domain.Account, error) {
	account, err := u.storage.AccountById(ctx, id)
	if err != nil {
		return domain.Account{}, userError("get account", err)
	}
	return account, nil
}

// Update replaces the editable profile. Changing the email to one held by
// another account is a conflict. A changed email is unverified until the
// link mailed to the new address is confirmed.
func (u *Users) Update(ctx context.Context, id domain.UserId, profile domain.Profile) (domain.Account, error) {
	account, err := u.storage.AccountById(ctx, id)
	if err != nil {
		return domain.Account{}, userError("get account", err)
	}

	email := NormalizeEmail(profile.Email)
	emailChanged := email != account.Email
	if emailChanged {
		account.EmailVerified = false
		account.Verification = u.verifier.NewVerification()
	}
	account.Email = email
	account.Name = profile.Name
	account.MobileNumber = profile.MobileNumber
	account.Address = profile.Address

	saved, err := u.storage.SaveAccount(ctx, account)
	if err != nil {
		return domain.Account{}, userError("update account", err)
	}

	if emailChanged {
		logger.Log.Info("email changed, verification restarted", "user_id", saved.Id)
		u.verifier.NotifyVerification(ctx, saved.Email, account.Verification)
	}
	return saved, nil
}

func (u *Users) Delete(ctx context.Context, id domain.UserId) error {
	if err := u.storage.DeleteAccount(ctx, id); err != nil {
		return userError("delete account", err)
	}
	return nil
}

func userError(op string, err error) error {
	if errors.IsNotFound(err) {
		return errors.Wrap(errors.KindNotFound, "User not found", err)
	}
	return internal(op, err)
}
