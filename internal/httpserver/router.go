package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, schema graphql.Schema, frontendOrigin string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.Use(cors.New(corsConfig(frontendOrigin)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	gql := graphqlHandler(schema)
	router.POST("/graphql", gql)
	router.POST("/graphql/", gql)

	return router
}

// corsConfig reflects the configured storefront origin and answers
// preflight requests with 200 and no body.
func corsConfig(frontendOrigin string) cors.Config {
	return cors.Config{
		AllowOrigins:              []string{frontendOrigin},
		AllowMethods:              []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials:          true,
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
