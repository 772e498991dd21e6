package sqlstore_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/medina-starter/accounts/backend/internal/storage/sqlite"
	"github.com/medina-starter/accounts/backend/internal/storage/sqlstore"
	"github.com/medina-starter/accounts/shared/domain"
	internal_errors "github.com/medina-starter/accounts/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *sqlstore.Storage {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Cleanup() })
	return s
}

func pendingAccount(email, token string) domain.Account {
	return domain.Account{
		Email:        email,
		Name:         "Ada",
		MobileNumber: "+14155552671",
		Address:      "1 Main St",
		PassHash:     "hash",
		Verification: domain.NewVerification(token, time.Now().Add(time.Hour)),
	}
}

func TestSaveAccount_Insert(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	saved, err := s.SaveAccount(ctx, pendingAccount("ada@example.com", "tok1"))
	require.NoError(t, err)
	assert.NotZero(t, saved.Id)

	got, err := s.AccountById(ctx, saved.Id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "+14155552671", got.MobileNumber)
	assert.Equal(t, "1 Main St", got.Address)
	assert.False(t, got.EmailVerified)
	require.NotNil(t, got.Verification)
	assert.Equal(t, "tok1", got.Verification.Token)
	assert.False(t, got.CreatedAt.IsZero())

	exists, err := s.EmailExists(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveAccount_DuplicateEmail(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	_, err := s.SaveAccount(ctx, pendingAccount("dup@example.com", "tok1"))
	require.NoError(t, err)

	_, err = s.SaveAccount(ctx, pendingAccount("dup@example.com", "tok2"))
	require.Error(t, err)
	assert.True(t, internal_errors.IsConflict(err))
	assert.Equal(t, "Email already exists", internal_errors.Classify(err).Message)
}

func TestSaveAccount_ConcurrentDuplicate(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.SaveAccount(ctx, pendingAccount("race@example.com", "tok"+string(rune('a'+i))))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if internal_errors.IsConflict(err) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestSaveAccount_Update(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	saved, err := s.SaveAccount(ctx, pendingAccount("upd@example.com", "tok1"))
	require.NoError(t, err)

	saved.Name = "Grace"
	saved.MobileNumber = ""
	_, err = s.SaveAccount(ctx, saved)
	require.NoError(t, err)

	got, err := s.AccountById(ctx, saved.Id)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)
	assert.Empty(t, got.MobileNumber)

	t.Run("missing account", func(t *testing.T) {
		_, err := s.SaveAccount(ctx, domain.Account{Id: 9999, Email: "x@example.com", Name: "x", PassHash: "h"})
		assert.True(t, internal_errors.IsNotFound(err))
	})

	t.Run("email taken by another account", func(t *testing.T) {
		_, err := s.SaveAccount(ctx, pendingAccount("other@example.com", "tok2"))
		require.NoError(t, err)
		saved.Email = "other@example.com"
		_, err = s.SaveAccount(ctx, saved)
		assert.True(t, internal_errors.IsConflict(err))
	})
}

func TestAccountLookups_NotFound(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	_, err := s.AccountByEmail(ctx, "missing@example.com")
	assert.True(t, internal_errors.IsNotFound(err))

	_, err = s.AccountById(ctx, 42)
	assert.True(t, internal_errors.IsNotFound(err))

	_, err = s.AccountByVerificationToken(ctx, "nope")
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestMarkEmailVerified(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	saved, err := s.SaveAccount(ctx, pendingAccount("ver@example.com", "tok1"))
	require.NoError(t, err)

	byToken, err := s.AccountByVerificationToken(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, saved.Id, byToken.Id)

	require.NoError(t, s.MarkEmailVerified(ctx, saved.Id, "tok1"))

	got, err := s.AccountById(ctx, saved.Id)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.Nil(t, got.Verification)

	_, err = s.AccountByVerificationToken(ctx, "tok1")
	assert.True(t, internal_errors.IsNotFound(err))

	err = s.MarkEmailVerified(ctx, saved.Id, "tok1")
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestListAndDeleteAccounts(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	var ids []domain.UserId
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		saved, err := s.SaveAccount(ctx, pendingAccount(email, "tok-"+email))
		require.NoError(t, err)
		ids = append(ids, saved.Id)
	}

	page, err := s.ListAccounts(ctx, domain.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a@example.com", page.Items[0].Email)

	page, err = s.ListAccounts(ctx, domain.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c@example.com", page.Items[0].Email)

	require.NoError(t, s.DeleteAccount(ctx, ids[1]))
	assert.True(t, internal_errors.IsNotFound(s.DeleteAccount(ctx, ids[1])))

	page, err = s.ListAccounts(ctx, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, domain.DefaultPageLimit, page.Page.Limit)
}

func TestRebindDollar(t *testing.T) {
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", sqlstore.RebindDollar("SELECT 1 WHERE a = ? AND b = ?"))
	assert.Equal(t, "SELECT 1", sqlstore.RebindDollar("SELECT 1"))
}
