package middleware

import (
	"strings"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/config"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil || claims.LearnerID == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("learner", claims)
		c.Next()
	}
}
