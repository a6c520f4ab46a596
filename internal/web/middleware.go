package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS wraps rs/cors for gin. The API is read-only, so only GET and the
// preflight OPTIONS are allowed.
func CORS() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	return func(g *gin.Context) {
		c.HandlerFunc(g.Writer, g.Request)
		if g.Request.Method == http.MethodOptions {
			g.AbortWithStatus(http.StatusNoContent)
			return
		}
		g.Next()
	}
}
