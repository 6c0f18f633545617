package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	customers := NewDomainGroup("customers", "/customers")
	customers.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
		PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, "updated "+c.Param("id")) }).
		PATCH("/:id", func(c *gin.Context) { c.String(http.StatusOK, "patched") }).
		DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("", func(c *gin.Context) { c.String(http.StatusOK, "orders") })

	r.Register(customers).Register(orders).Setup()

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/api/v1/customers", http.StatusOK, "list"},
		{http.MethodPost, "/api/v1/customers", http.StatusCreated, "created"},
		{http.MethodPut, "/api/v1/customers/7", http.StatusOK, "updated 7"},
		{http.MethodPatch, "/api/v1/customers/7", http.StatusOK, "patched"},
		{http.MethodDelete, "/api/v1/customers/7", http.StatusNoContent, ""},
		{http.MethodGet, "/api/v1/orders", http.StatusOK, "orders"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestRouterMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-API", "yes")
		c.Next()
	})

	public := NewDomainGroup("password", "/password")
	public.GET("/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	private := NewDomainGroup("customers", "/customers")
	private.Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})
	private.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.Register(public).Register(private).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/password/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-API"))

	w = serve(engine, http.MethodGet, "/api/v1/customers")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-API"))
}

func TestRouterFallbacks(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	g := NewDomainGroup("products", "/products")
	g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(g).Setup()

	t.Run("unknown route", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/nowhere")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t,
			`{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Route not found: GET /nowhere"}}`,
			w.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/api/v1/products")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("employees", "/employees")
	assert.Equal(t, "employees", g.Name())
	assert.Equal(t, "/employees", g.Prefix())

	images := g.Group("profile-image", "/:id/profile-image")
	images.GET("", func(c *gin.Context) { c.String(http.StatusOK, "image "+c.Param("id")) })

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/employees/abc/profile-image")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image abc", w.Body.String())
}

func TestRouterAPIDocs(t *testing.T) {
	t.Run("serves the OpenAPI document", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine, WithAPIDocs()).Setup()

		w := serve(engine, http.MethodGet, "/swagger/doc.json")
		require.Equal(t, http.StatusOK, w.Code)

		var doc struct {
			Info struct {
				Title string `json:"title"`
			} `json:"info"`
			BasePath string                    `json:"basePath"`
			Paths    map[string]map[string]any `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, "Retail Admin API", doc.Info.Title)
		assert.Equal(t, "/api/v1", doc.BasePath)
		assert.Contains(t, doc.Paths["/orders/{id}"], "delete")
		assert.Contains(t, doc.Paths["/employees/{id}/status"], "patch")
		assert.Contains(t, doc.Paths["/password/login"], "post")
	})

	t.Run("guard runs first", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine, WithAPIDocs(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})).Setup()

		w := serve(engine, http.MethodGet, "/swagger/doc.json")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("not served unless asked for", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine).Setup()

		w := serve(engine, http.MethodGet, "/swagger/doc.json")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
