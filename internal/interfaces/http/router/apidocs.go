package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/retaildash/backend/docs"
)

// APIDocsPath is where the Swagger UI and doc.json are served
const APIDocsPath = "/swagger/*any"

// WithAPIDocs serves the Swagger UI at /swagger. guard runs before it,
// e.g. middleware.APIDocsProtection.
func WithAPIDocs(guard ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.docsEnabled = true
		r.docsGuard = guard
	}
}

func (r *Router) registerAPIDocs() {
	if !r.docsEnabled {
		return
	}
	handlers := append(append([]gin.HandlerFunc{}, r.docsGuard...), ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET(APIDocsPath, handlers...)
}
