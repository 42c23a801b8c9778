package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almacen-erp/internal/application/auth"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/memrepo"
	pkgjwt "github.com/jhoicas/almacen-erp/pkg/jwt"
)

const testSecret = "secreto-de-prueba-no-usar"

func newFixture() (*auth.AuthUseCase, *memrepo.Store) {
	store := memrepo.New()
	uc := auth.NewAuthUseCase(store.Users, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "almacen-erp",
	})
	return uc, store
}

func TestRegisterUser_HasheaYPersiste(t *testing.T) {
	uc, store := newFixture()

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@acme.co",
		Name:     "Ana",
		Password: "clave-segura",
		Role:     entity.RoleBodeguero,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.co", out.Email)
	assert.Equal(t, entity.RoleBodeguero, out.Role)
	assert.True(t, out.IsActive)

	stored, err := store.Users.GetByEmail("ana@acme.co")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura")))
}

func TestRegisterUser_RolPorDefectoVendedor(t *testing.T) {
	uc, _ := newFixture()

	out, err := uc.RegisterUser(dto.RegisterRequest{Email: "v@acme.co", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, out.Role)
	// Sin nombre, el email hace de nombre visible.
	assert.Equal(t, "v@acme.co", out.Name)
}

func TestRegisterUser_RolDesconocido(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "x@acme.co", Password: "12345678", Role: "gerente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "dup@acme.co", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "dup@acme.co", Password: "otraclave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_DevuelveTokenConRol(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@acme.co",
		Password: "clave-admin",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "admin@acme.co", Password: "clave-admin"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	userID, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "u@acme.co", Password: "clave-buena"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "u@acme.co", Password: "clave-mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@acme.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store := newFixture()

	out, err := uc.RegisterUser(dto.RegisterRequest{Email: "ex@acme.co", Password: "12345678"})
	require.NoError(t, err)

	u, err := store.Users.GetByID(out.ID)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, store.Users.Update(u))

	_, err = uc.Login(dto.LoginRequest{Email: "ex@acme.co", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
