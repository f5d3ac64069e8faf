package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasshub/canvasshub-backend/internal/auth"
	"github.com/canvasshub/canvasshub-backend/internal/users"
	pkgAuth "github.com/canvasshub/canvasshub-backend/pkg/auth"
	"github.com/canvasshub/canvasshub-backend/pkg/auth/session"
	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
)

var jwtCfg = config.JWTConfig{Secret: "secret", Issuer: "canvasshub", ExpirationMinutes: 15}

type stubLogin struct {
	got auth.LoginRequest
	err error
}

func (s *stubLogin) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &auth.LoginResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &users.UserDTO{ID: uuid.New(), Email: req.Email, Role: enums.RoleUser},
	}, nil
}

type stubRegister struct {
	calls int
	err   error
}

func (s *stubRegister) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &users.UserDTO{ID: uuid.New(), Email: req.Email, Role: enums.RoleUser}, nil
}

type stubRotator struct {
	revoked   string
	rotateErr error
}

func (s *stubRotator) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access", "new-refresh", nil
}

func (s *stubRotator) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

func TestAuthLogin(t *testing.T) {
	svc := &stubLogin{}
	rec := serve(AuthLogin(svc, testLogger()), newRequest(http.MethodPost, "/api/v1/auth/login", requestOpts{
		body: `{"email":"user@example.com","password":"user123"}`,
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "access", rec.Header().Get(tokenHeader))
	var body auth.LoginResponse
	decodeData(t, rec, &body)
	assert.Equal(t, "refresh", body.RefreshToken)
	assert.Equal(t, "user@example.com", body.User.Email)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc := &stubLogin{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	rec := serve(AuthLogin(svc, testLogger()), newRequest(http.MethodPost, "/api/v1/auth/login", requestOpts{
		body: `{"email":"user@example.com","password":"nope"}`,
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeEnvelope(t, rec).Error.Message)
}

func TestAuthLoginValidatesBody(t *testing.T) {
	svc := &stubLogin{}
	rec := serve(AuthLogin(svc, testLogger()), newRequest(http.MethodPost, "/api/v1/auth/login", requestOpts{
		body: `{"email":"not-an-email"}`,
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.got.Email)
}

func TestAuthRegisterSignsIn(t *testing.T) {
	reg := &stubRegister{}
	login := &stubLogin{}
	rec := serve(AuthRegister(reg, login, testLogger()), newRequest(http.MethodPost, "/api/v1/auth/register", requestOpts{
		body: `{"email":"new@example.com","password":"secret1","name":"New User"}`,
	}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, reg.calls)
	assert.Equal(t, "new@example.com", login.got.Email)
	assert.Equal(t, "secret1", login.got.Password)
}

func TestAuthRegisterConflict(t *testing.T) {
	reg := &stubRegister{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	login := &stubLogin{}
	rec := serve(AuthRegister(reg, login, testLogger()), newRequest(http.MethodPost, "/api/v1/auth/register", requestOpts{
		body: `{"email":"dupe@example.com","password":"secret1"}`,
	}))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, login.got.Email)
}

func mintToken(t *testing.T, accessID string, ttl time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	if ttl < 0 {
		now = now.Add(ttl - time.Duration(jwtCfg.ExpirationMinutes)*time.Minute)
	}
	token, err := pkgAuth.MintAccessToken(jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   enums.RoleUser,
		JTI:    accessID,
	})
	require.NoError(t, err)
	return token
}

func TestAuthLogoutRevokesExpiredSession(t *testing.T) {
	rotator := &stubRotator{}
	req := newRequest(http.MethodPost, "/api/v1/auth/logout", requestOpts{})
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "jti-1", -time.Minute))

	rec := serve(AuthLogout(rotator, jwtCfg, testLogger()), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "jti-1", rotator.revoked)
}

func TestAuthLogoutRequiresToken(t *testing.T) {
	rec := serve(AuthLogout(&stubRotator{}, jwtCfg, testLogger()), newRequest(http.MethodPost, "/api/v1/auth/logout", requestOpts{}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRefresh(t *testing.T) {
	rotator := &stubRotator{}
	req := newRequest(http.MethodPost, "/api/v1/auth/refresh", requestOpts{body: `{"refresh_token":"old"}`})
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "jti-2", 0))

	rec := serve(AuthRefresh(rotator, jwtCfg, testLogger()), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body refreshResponse
	decodeData(t, rec, &body)
	assert.Equal(t, "new-refresh", body.RefreshToken)
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new-access", claims.ID)
	assert.Equal(t, enums.RoleUser, claims.Role)
}

func TestAuthRefreshInvalidToken(t *testing.T) {
	rotator := &stubRotator{rotateErr: session.ErrInvalidRefreshToken}
	req := newRequest(http.MethodPost, "/api/v1/auth/refresh", requestOpts{body: `{"refresh_token":"stale"}`})
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "jti-3", 0))

	rec := serve(AuthRefresh(rotator, jwtCfg, testLogger()), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
