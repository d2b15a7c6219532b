package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

func newProfile(users ...models.User) (*ProfileService, *fakeUsers, *fakeMedia) {
	repo := newFakeUsers(users...)
	m := &fakeMedia{}
	return NewProfileService(repo, m, logger.NewNop()), repo, m
}

func ptr[T any](v T) *T { return &v }

func TestProfileUpdate(t *testing.T) {
	ps, _, _ := newProfile(models.User{UID: "u1", Name: "Alice"})
	ctx := context.Background()

	u, err := ps.Update(ctx, "u1", dto.ProfileUpdate{Name: ptr("  Alice B  "), Phone: ptr("+241 06 00 00 00")})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.Name)
	assert.Equal(t, "+241 06 00 00 00", u.Phone)

	_, err = ps.Update(ctx, "u1", dto.ProfileUpdate{Name: ptr("")})
	assert.ErrorIs(t, err, core.ErrInvalidProfile)

	_, err = ps.Update(ctx, "ghost", dto.ProfileUpdate{})
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestUploadPhoto_ReplacesPrevious(t *testing.T) {
	ps, _, m := newProfile(models.User{UID: "u1", PhotoURL: "https://cdn.test/profiles/old"})
	ctx := context.Background()

	u, err := ps.UploadPhoto(ctx, "u1", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, m.uploaded, 1)
	assert.Equal(t, m.uploaded[0], u.PhotoURL)
	assert.Equal(t, []string{"https://cdn.test/profiles/old"}, m.deleted)

	_, err = ps.UploadPhoto(ctx, "u1", "text/plain", strings.NewReader("txt"))
	assert.ErrorIs(t, err, core.ErrInvalidImage)
}

func TestAddressBook(t *testing.T) {
	ps, repo, _ := newProfile(models.User{UID: "u1"})
	ctx := context.Background()

	book, err := ps.AddAddress(ctx, "u1", dto.AddressRequest{Name: "Maison", Address: "12 rue A", City: "Libreville"})
	require.NoError(t, err)
	require.Len(t, book, 1)
	assert.True(t, book[0].IsDefault, "first address becomes default")

	book, err = ps.AddAddress(ctx, "u1", dto.AddressRequest{Name: "Bureau", Address: "5 avenue B"})
	require.NoError(t, err)
	require.Len(t, book, 2)
	assert.False(t, book[1].IsDefault)

	second := book[1].ID
	book, err = ps.SetDefaultAddress(ctx, "u1", second)
	require.NoError(t, err)
	assert.False(t, book[0].IsDefault)
	assert.True(t, book[1].IsDefault)

	book, err = ps.UpdateAddress(ctx, "u1", second, dto.AddressRequest{Name: "Bureau", Address: "6 avenue B"})
	require.NoError(t, err)
	assert.Equal(t, "6 avenue B", book[1].Address)
	assert.True(t, book[1].IsDefault)

	book, err = ps.DeleteAddress(ctx, "u1", second)
	require.NoError(t, err)
	require.Len(t, book, 1)
	assert.True(t, book[0].IsDefault, "remaining address is promoted")
	assert.Equal(t, book, repo.items["u1"].Addresses)

	_, err = ps.DeleteAddress(ctx, "u1", "nope")
	assert.ErrorIs(t, err, core.ErrAddressNotFound)

	_, err = ps.AddAddress(ctx, "u1", dto.AddressRequest{Name: "Vide"})
	assert.ErrorIs(t, err, core.ErrAddressRequired)
}
