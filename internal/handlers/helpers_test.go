package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/achievers-club/mentoring-service/internal/cache"
	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
)

const (
	testKeyID    = "test-key"
	testIssuer   = "https://login.example.test/tenant/v2.0"
	testAudience = "api://mentoring"
	testAzureID  = "00000000-0000-0000-0000-000000000042"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	jwks := map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": kid,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	data, _ := json.Marshal(jwks)
	return data
}

// fakeAccess answers role lookups with fixed roles
type fakeAccess struct {
	services.AccessService
	roles   models.RoleSet
	err     error
	lookups int
}

func (f *fakeAccess) CurrentRoles(_ context.Context, azureID string) (models.RoleSet, *models.ExternalIdentity, error) {
	f.lookups++
	if f.err != nil {
		return models.RoleSet{}, nil, f.err
	}
	return f.roles, &models.ExternalIdentity{ID: azureID, DisplayName: "Test User"}, nil
}

type authFixture struct {
	key    *rsa.PrivateKey
	auth   *AuthMiddleware
	access *fakeAccess
	redis  *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	kf, err := keyfunc.NewJWKSetJSON(buildJWKSetJSON(&key.PublicKey, testKeyID))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	revocations := cache.NewRevocationStore(cache.NewCacheManager(client).Session)

	access := &fakeAccess{roles: models.RoleSet{Admin: true}}
	auth := NewAuthMiddleware(kf, revocations, access, AuthConfig{
		Issuer:   testIssuer,
		Audience: testAudience,
	}, testLogger())

	return &authFixture{key: key, auth: auth, access: access, redis: mr}
}

func (f *authFixture) claims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"oid": testAzureID,
		"sub": "pairwise-subject",
		"iss": testIssuer,
		"aud": testAudience,
		"iat": jwt.NewNumericDate(now),
		"nbf": jwt.NewNumericDate(now.Add(-time.Minute)),
		"exp": jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func (f *authFixture) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func (f *authFixture) token(t *testing.T) string {
	return f.sign(t, f.claims())
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// countingInvalidator records session invalidations
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateSession(*gin.Context) {
	c.calls++
}
