package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()

	issuer, err := NewIssuer(testSecret)
	require.NoError(t, err)

	return issuer
}

func TestNewIssuer_MissingSecret(t *testing.T) {
	_, err := NewIssuer("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET not set")
}

func TestGenerateJWT_Success(t *testing.T) {
	token, err := newTestIssuer(t).GenerateJWT("catalog-ui", time.Hour)

	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have 3 parts")
}

func TestGenerateJWT_RequiresClientID(t *testing.T) {
	_, err := newTestIssuer(t).GenerateJWT("", time.Hour)
	require.Error(t, err)
}

func TestValidateJWT_ValidToken(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.GenerateJWT("catalog-ui", time.Hour)
	require.NoError(t, err)

	claims, err := issuer.ValidateJWT(token)

	require.NoError(t, err)
	assert.Equal(t, "catalog-ui", claims.ClientID)
	assert.Equal(t, "catalog-ui", claims.Subject)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.GenerateJWT("catalog-ui", -time.Minute)
	require.NoError(t, err)

	_, err = issuer.ValidateJWT(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	other, err := NewIssuer("another-secret")
	require.NoError(t, err)

	token, err := other.GenerateJWT("catalog-ui", time.Hour)
	require.NoError(t, err)

	_, err = newTestIssuer(t).ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWT_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		ClientID: "attacker",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestIssuer(t).ValidateJWT(token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	issuer := newTestIssuer(t)
	valid, err := issuer.GenerateJWT("catalog-ui", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/private", Middleware(issuer), func(c *gin.Context) {
		id, ok := GetClientID(c)
		assert.True(t, ok)
		c.String(http.StatusOK, id)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lower-case scheme", "bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)

			if tt.want == http.StatusOK {
				assert.Equal(t, "catalog-ui", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "unauthorized")
			}
		})
	}
}
