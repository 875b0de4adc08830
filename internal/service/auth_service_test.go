package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
)

func sembrarUsuario(t *testing.T, env *testEnv, password string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	host := "caja-01"
	u := &model.Usuario{
		Username:     "cajero1",
		Nombre:       "Cajero Uno",
		Email:        strPtr("cajero1@mangopos.com"),
		PasswordHash: string(hash),
		Rol:          "cajero",
		Host:         &host,
		Activo:       true,
	}
	require.NoError(t, env.usuarioRepo.Create(context.Background(), u))
	return u
}

func TestLoginExitoso(t *testing.T) {
	env := newTestEnv()
	sembrarUsuario(t, env, "clave-segura")

	resp, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "clave-segura",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "cajero1", resp.Usuario.Username)
	assert.Equal(t, "cajero", resp.Usuario.Rol)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	env := newTestEnv()
	sembrarUsuario(t, env, "clave-segura")

	_, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "otra-clave",
	})
	require.Error(t, err)
	assert.Equal(t, "credenciales invalidas", err.Error())
}

func TestLoginUsuarioInexistente(t *testing.T) {
	env := newTestEnv()

	_, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Username: "fantasma",
		Password: "cualquiera",
	})
	require.Error(t, err)
	assert.Equal(t, "credenciales invalidas", err.Error())
}

func TestRefreshEmiteNuevosTokens(t *testing.T) {
	env := newTestEnv()
	sembrarUsuario(t, env, "clave-segura")

	login, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "clave-segura",
	})
	require.NoError(t, err)

	resp, err := env.auth.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "cajero1", resp.Usuario.Username)
}

func TestRefreshUsuarioInactivo(t *testing.T) {
	env := newTestEnv()
	u := sembrarUsuario(t, env, "clave-segura")

	login, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "clave-segura",
	})
	require.NoError(t, err)

	u.Activo = false
	_, err = env.auth.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestRefreshTokenBasura(t *testing.T) {
	env := newTestEnv()
	_, err := env.auth.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
}
