package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifwid/go-shop-api/internal/apperr"
	"github.com/hanifwid/go-shop-api/internal/memstore"
	"github.com/hanifwid/go-shop-api/internal/users"
)

func newSvc() *users.Service {
	return users.NewService(memstore.New().Users())
}

func TestCreate_DefaultsRoleToUser(t *testing.T) {
	svc := newSvc()

	u, err := svc.Create(context.Background(), users.User{
		Name: "Alice", Email: "alice@example.com", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, users.RoleUser, u.Role)
	assert.NotZero(t, u.ID)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc := newSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, users.User{Name: "Alice", Email: "alice@example.com", Password: "a"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, users.User{Name: "Other", Email: "alice@example.com", Password: "b"})
	assert.True(t, apperr.IsDuplicate(err))
}

func TestLogin_DoesNotDistinguishUnknownEmailFromWrongPassword(t *testing.T) {
	svc := newSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, users.User{Name: "Alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "secret")
	_, errWrongPw := svc.Login(ctx, "alice@example.com", "nope")

	assert.ErrorIs(t, errUnknown, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, apperr.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())

	u, err := svc.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
}

func TestUpdate_KeepsPasswordWhenEmptyAndChecksEmailCollision(t *testing.T) {
	svc := newSvc()
	ctx := context.Background()

	alice, err := svc.Create(ctx, users.User{Name: "Alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, users.User{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	// empty password keeps the stored one; login still works
	_, err = svc.Update(ctx, alice.ID, users.User{Name: "Alice K", Email: "alice@example.com", Address: "Street 7"})
	require.NoError(t, err)
	got, err := svc.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice K", got.Name)
	assert.Equal(t, "Street 7", got.Address)

	// moving onto someone else's email is rejected
	_, err = svc.Update(ctx, alice.ID, users.User{Name: "Alice K", Email: "bob@example.com"})
	assert.True(t, apperr.IsDuplicate(err))

	// keeping one's own email is fine
	_, err = svc.Update(ctx, alice.ID, users.User{Name: "Alice K", Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestGetByEmailAndDelete(t *testing.T) {
	svc := newSvc()
	ctx := context.Background()

	alice, err := svc.Create(ctx, users.User{Name: "Alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	got, err := svc.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = svc.GetByEmail(ctx, "missing@example.com")
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, alice.ID))
	_, err = svc.Get(ctx, alice.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(svc.Delete(ctx, alice.ID)))
}
