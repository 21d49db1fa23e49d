package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CreatorClaims bind a creator identity to a single quiz code.
type CreatorClaims struct {
	QuizCode  string `json:"quiz_code"`
	CreatorID string `json:"creator_id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates creator tokens. The token returned by
// create() is the only accepted proof of creatorship for admin and start;
// a caller-supplied identity string is never trusted on its own.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a creator token for the given quiz code.
func (s *TokenService) Issue(quizCode, creatorID string) (string, error) {
	now := time.Now()
	claims := CreatorClaims{
		QuizCode:  quizCode,
		CreatorID: creatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Authorize validates the token and checks it was issued for quizCode.
// It returns the creator ID on success and ErrForbidden otherwise.
func (s *TokenService) Authorize(tokenString, quizCode string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CreatorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrForbidden
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrForbidden
	}
	claims, ok := token.Claims.(*CreatorClaims)
	if !ok || !token.Valid || claims.QuizCode != quizCode {
		return "", ErrForbidden
	}
	return claims.CreatorID, nil
}
