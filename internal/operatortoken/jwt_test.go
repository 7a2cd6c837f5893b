package operatortoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cotejo/pkg/domain-errors"
)

var tokenService = NewService("test-signing-key")

func signToken(t *testing.T, claims Claims, key string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func operatorClaims(expiresIn time.Duration) Claims {
	return Claims{
		OperatorID: uuid.NewString(),
		Zone:       "zona-norte",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func Test_ValidateToken_Valid(t *testing.T) {
	want := operatorClaims(time.Hour)
	token := signToken(t, want, "test-signing-key")

	claims, err := tokenService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, want.OperatorID, claims.OperatorID)
	assert.Equal(t, "zona-norte", claims.Zone)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := tokenService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token := signToken(t, operatorClaims(-time.Hour), "test-signing-key")

	_, err := tokenService.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	token := signToken(t, operatorClaims(time.Hour), "other-key")

	_, err := tokenService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_MissingOperatorClaim(t *testing.T) {
	claims := operatorClaims(time.Hour)
	claims.OperatorID = ""
	token := signToken(t, claims, "test-signing-key")

	_, err := tokenService.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operator")
}
