package repositories

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/trilytx/trilytx-backend/models"
)

// Claims of the HS256 tokens accepted by the API. The user is the subject, or the email when the
// token has no subject.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var ValidationAlgo = jwt.SigningMethodHS256

type JwtRepository struct {
	signingKey []byte
}

func NewJwtRepository(signingKey string) *JwtRepository {
	return &JwtRepository{signingKey: []byte(signingKey)}
}

func (repo *JwtRepository) EncodeToken(userId, email string, expirationTime time.Time) (string, error) {
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			Issuer:    "trilytx",
		},
	}
	return jwt.NewWithClaims(ValidationAlgo, claims).SignedString(repo.signingKey)
}

func (repo *JwtRepository) Validate(ctx context.Context, token string) (models.Credentials, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		return repo.signingKey, nil
	}, jwt.WithValidMethods([]string{ValidationAlgo.Alg()}))
	if err != nil {
		return models.Credentials{}, errors.Join(
			models.UnAuthorizedError,
			errors.Wrap(err, "error parsing jwt token claims"),
		)
	}

	userId := claims.Subject
	if userId == "" {
		userId = claims.Email
	}
	if userId == "" {
		return models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "token has neither subject nor email")
	}
	return models.Credentials{UserId: userId, Email: claims.Email}, nil
}
