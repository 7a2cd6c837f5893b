package operatortoken

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	dErrors "cotejo/pkg/domain-errors"
)

// Claims are the JWT claims issued by the case-management identity provider
// for operator access tokens. Only the fields this service consumes are
// modelled; everything else rides in RegisteredClaims.
type Claims struct {
	OperatorID string `json:"operator_id"`
	Zone       string `json:"zone"`
	jwt.RegisteredClaims
}

// Service validates operator access tokens. Token issuance belongs to the
// identity provider; this service only verifies.
type Service struct {
	signingKey []byte
}

func NewService(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies an operator token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.OperatorID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing operator claim")
	}
	return claims, nil
}
