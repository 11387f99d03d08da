package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 身份签发在外部系统完成，这里只关心不透明的学习者标识
type Claims struct {
	LearnerID string `json:"learner_id"`
	jwt.RegisteredClaims
}

func GenerateJWT(learnerID, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		LearnerID: learnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

func GetLearnerFromContext(c *gin.Context) *Claims {
	learner, exists := c.Get("learner")
	if !exists {
		return nil
	}
	claims, ok := learner.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
