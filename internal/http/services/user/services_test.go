package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	dto "github.com/dropDatabas3/hellomail/internal/http/dto/user"
	"github.com/dropDatabas3/hellomail/internal/jwt"
	"github.com/dropDatabas3/hellomail/internal/store/adapters/memory"
)

func newTestServices(t *testing.T) (Services, *memory.UserRepository, *jwt.Issuer) {
	t.Helper()
	repo := memory.NewUserRepository()
	issuer := jwt.NewIssuer("hellomail", "test-secret", time.Hour)
	return NewServices(Deps{Users: repo, Issuer: issuer, BcryptCost: bcrypt.MinCost}), repo, issuer
}

func strPtr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	svc, repo, _ := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: " Ana ", Email: " Ana@X.com ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@x.com", u.Email)
	assert.NotEqual(t, "pw", u.PasswordHash)

	stored, err := repo.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newTestServices(t)
	for _, in := range []dto.RegisterRequest{
		{Email: "a@b.c", Password: "pw"},
		{Name: "a", Password: "pw"},
		{Name: "a", Email: "a@b.c"},
		{Name: "  ", Email: "a@b.c", Password: "pw"},
	} {
		_, err := svc.Register.Register(context.Background(), in)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Register.Register(ctx, dto.RegisterRequest{Name: "b", Email: "A@B.C", Password: "pw2"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, issuer := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	token, exp, err := svc.Login.Login(ctx, dto.LoginRequest{Email: "A@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	_, _, err = svc.Login.Login(ctx, dto.LoginRequest{Email: "a@b.c", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login.Login(ctx, dto.LoginRequest{Email: "nobody@b.c", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login.Login(ctx, dto.LoginRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin_NoSecret(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := NewServices(Deps{Users: repo, Issuer: jwt.NewIssuer("", "", 0), BcryptCost: bcrypt.MinCost})
	ctx := context.Background()

	_, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	_, _, err = svc.Login.Login(ctx, dto.LoginRequest{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, jwt.ErrNoSecret)
}

func TestUpdateSettings(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	updated, err := svc.Profile.UpdateSettings(ctx, u.ID, dto.SettingsRequest{
		FromMail: strPtr(" me@gmail.com "),
		Provider: strPtr(" Gmail "),
	})
	require.NoError(t, err)
	assert.Equal(t, "me@gmail.com", updated.Sender.FromMail)
	assert.Equal(t, "gmail", updated.Sender.Provider)
	assert.Empty(t, updated.Sender.AppPassword)
	assert.False(t, updated.Sender.Configured())

	updated, err = svc.Profile.UpdateSettings(ctx, u.ID, dto.SettingsRequest{AppPassword: strPtr("app-pass")})
	require.NoError(t, err)
	assert.Equal(t, "gmail", updated.Sender.Provider)
	assert.True(t, updated.Sender.Configured())
}

func TestUpdateSettings_StoresUnknownProvider(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	updated, err := svc.Profile.UpdateSettings(ctx, u.ID, dto.SettingsRequest{Provider: strPtr("AOL")})
	require.NoError(t, err)
	assert.Equal(t, "aol", updated.Sender.Provider)
}

func TestUpdateSettings_Errors(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Profile.UpdateSettings(ctx, "any", dto.SettingsRequest{})
	assert.ErrorIs(t, err, ErrNoValidFields)

	_, err = svc.Profile.UpdateSettings(ctx, "missing", dto.SettingsRequest{Provider: strPtr("gmail")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateSettings_NoValidFieldsLeavesUserUntouched(t *testing.T) {
	svc, repo, _ := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Profile.UpdateSettings(ctx, u.ID, dto.SettingsRequest{
		FromMail: strPtr("me@gmail.com"), AppPassword: strPtr("app-pass"), Provider: strPtr("gmail"),
	})
	require.NoError(t, err)
	before, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)

	for _, in := range []dto.SettingsRequest{
		{},
		dto.SettingsFromMap(map[string]any{"provider": 42, "from_mail": true, "other": "x"}),
	} {
		_, err = svc.Profile.UpdateSettings(ctx, u.ID, in)
		assert.ErrorIs(t, err, ErrNoValidFields)
	}

	after, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Sender, after.Sender)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestProfileGet(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Register.Register(ctx, dto.RegisterRequest{Name: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	got, err := svc.Profile.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got.Email)

	_, err = svc.Profile.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
