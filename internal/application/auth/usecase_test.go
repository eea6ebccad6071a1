package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/libreria-stock/internal/application/auth"
	"github.com/tu-usuario/libreria-stock/internal/application/dto"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/testutil"
	"github.com/tu-usuario/libreria-stock/pkg/jwt"
)

const testSecret = "secreto-de-prueba-muy-largo"

func newAuthUC(f *testutil.Fixture) *auth.AuthUseCase {
	return auth.NewAuthUseCase(f.Users, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "libreria-stock-test",
	})
}

func TestRegisterUser_CreaConRolPorDefecto(t *testing.T) {
	f := testutil.NewFixture()
	uc := newAuthUC(f)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@libreria.com",
		Password: "contraseña-segura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ana@libreria.com", resp.Email)
	assert.Equal(t, "ana@libreria.com", resp.Name, "sin nombre se usa el email")
	assert.Equal(t, entity.RoleVendedor, resp.Role)

	// El hash nunca viaja en la respuesta y nunca es el password plano.
	stored, err := f.Users.GetByID(resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "contraseña-segura", stored.PasswordHash)
}

func TestRegisterUser_PasswordCorto(t *testing.T) {
	f := testutil.NewFixture()
	uc := newAuthUC(f)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@libreria.com",
		Password: "corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	f := testutil.NewFixture()
	uc := newAuthUC(f)

	in := dto.RegisterRequest{Email: "ana@libreria.com", Password: "contraseña-segura"}
	_, err := uc.RegisterUser(in)
	require.NoError(t, err)

	_, err = uc.RegisterUser(in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_DevuelveTokenConClaims(t *testing.T) {
	f := testutil.NewFixture()
	uc := newAuthUC(f)

	reg, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@libreria.com",
		Password: "contraseña-segura",
		Name:     "Admin",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{
		Email:    "admin@libreria.com",
		Password: "contraseña-segura",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.ID, resp.User.ID)

	userID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	f := testutil.NewFixture()
	uc := newAuthUC(f)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@libreria.com",
		Password: "contraseña-segura",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@libreria.com", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	f := testutil.NewFixture()
	uc := newAuthUC(f)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@libreria.com", Password: "da-igual"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
