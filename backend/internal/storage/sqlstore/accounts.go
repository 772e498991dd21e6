package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/medina-starter/accounts/shared/domain"
	internal_errors "github.com/medina-starter/accounts/shared/errors"
)

const accountColumns = `id, email, name, mobile_number, address, password_hash,
	email_verified, verification_token, verification_expires_at, created_at`

var (
	errAccountNotFound      = internal_errors.New(internal_errors.KindNotFound, "User not found")
	errVerificationNotFound = internal_errors.New(internal_errors.KindNotFound, "Verification not found")
	errEmailExists          = internal_errors.New(internal_errors.KindConflict, "Email already exists")
)

// =========================================================================
// Public Methods (satisfy service.AccountStorage)
// =========================================================================

// EmailExists reports whether an account with the email is stored.
func (s *Storage) EmailExists(ctx context.Context, email domain.Email) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx, s.q("SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)"), email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (s *Storage) AccountByEmail(ctx context.Context, email domain.Email) (domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.account(ctx, s.db, "email = ?", email)
}

func (s *Storage) AccountById(ctx context.Context, id domain.UserId) (domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.account(ctx, s.db, "id = ?", id)
}

func (s *Storage) AccountByVerificationToken(ctx context.Context, token string) (domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.account(ctx, s.db, "verification_token = ?", token)
}

// SaveAccount inserts the account when it has no id yet and updates it
// otherwise. A unique violation on email is reported as a conflict.
func (s *Storage) SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if account.Id == 0 {
		return s.insertAccount(ctx, s.db, account)
	}
	if err := s.updateAccount(ctx, s.db, account); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// MarkEmailVerified flips the verified flag and clears the pending
// verification, but only while token is still the stored one. When another
// caller consumed it first the verification is reported as not found.
func (s *Storage) MarkEmailVerified(ctx context.Context, id domain.UserId, token string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE users
		SET email_verified = TRUE, verification_token = NULL, verification_expires_at = NULL
		WHERE id = ? AND verification_token = ?`),
		id, token,
	)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for email verification: %w", err)
	}
	if rows == 0 {
		return errVerificationNotFound
	}
	return nil
}

// ListAccounts returns one page of accounts ordered by id, with the total
// count read in the same transaction.
func (s *Storage) ListAccounts(ctx context.Context, page domain.Page) (domain.AccountPage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	page = page.Normalize()
	result := domain.AccountPage{Page: page, Items: []domain.Account{}}

	err := s.withTx(ctx, &sql.TxOptions{ReadOnly: s.dialect.Name() == "postgres"}, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&result.Total); err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		rows, err := tx.QueryContext(ctx, s.q("SELECT "+accountColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?"), page.Limit, page.Offset)
		if err != nil {
			return fmt.Errorf("failed to query users: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			account, err := scanAccount(rows)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, account)
		}
		return rows.Err()
	})
	if err != nil {
		return domain.AccountPage{}, err
	}
	return result, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id domain.UserId) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, s.q("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
	}
	if rows == 0 {
		return errAccountNotFound
	}
	return nil
}

// =========================================================================
// Internal Methods
// =========================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account   domain.Account
		mobile    sql.NullString
		address   sql.NullString
		token     sql.NullString
		expires   sql.NullString
		createdAt string
	)
	err := row.Scan(&account.Id, &account.Email, &account.Name, &mobile, &address, &account.PassHash,
		&account.EmailVerified, &token, &expires, &createdAt)
	if err != nil {
		return domain.Account{}, err
	}

	account.MobileNumber = mobile.String
	account.Address = address.String
	if token.Valid && expires.Valid {
		account.Verification = &domain.Verification{Token: token.String, ExpiresAt: expires.String}
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		account.CreatedAt = t
	}
	return account, nil
}

func (s *Storage) account(ctx context.Context, q Querier, where string, arg any) (domain.Account, error) {
	row := q.QueryRowContext(ctx, s.q("SELECT "+accountColumns+" FROM users WHERE "+where), arg)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, errAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("failed to query user: %w", err)
	}
	return account, nil
}

func (s *Storage) insertAccount(ctx context.Context, q Querier, account domain.Account) (domain.Account, error) {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	token, expires := verificationColumns(account.Verification)

	err := q.QueryRowContext(ctx, s.q(`
		INSERT INTO users (email, name, mobile_number, address, password_hash,
			email_verified, verification_token, verification_expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		account.Email, account.Name, nullString(account.MobileNumber), nullString(account.Address), account.PassHash,
		account.EmailVerified, token, expires, account.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&account.Id)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return domain.Account{}, internal_errors.Wrap(internal_errors.KindConflict, errEmailExists.Message, err)
		}
		return domain.Account{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return account, nil
}

func (s *Storage) updateAccount(ctx context.Context, q Querier, account domain.Account) error {
	token, expires := verificationColumns(account.Verification)

	result, err := q.ExecContext(ctx, s.q(`
		UPDATE users
		SET email = ?, name = ?, mobile_number = ?, address = ?, password_hash = ?,
			email_verified = ?, verification_token = ?, verification_expires_at = ?
		WHERE id = ?`),
		account.Email, account.Name, nullString(account.MobileNumber), nullString(account.Address), account.PassHash,
		account.EmailVerified, token, expires, account.Id,
	)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return internal_errors.Wrap(internal_errors.KindConflict, errEmailExists.Message, err)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user update: %w", err)
	}
	if rows == 0 {
		return errAccountNotFound
	}
	return nil
}

func verificationColumns(v *domain.Verification) (sql.NullString, sql.NullString) {
	if v == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: v.Token, Valid: true}, sql.NullString{String: v.ExpiresAt, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
