// Package httpapi exposes the services over HTTP with gin.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/stockroom/internal/auth"
	"github.com/mmynk/stockroom/internal/middleware"
	"github.com/mmynk/stockroom/internal/service"
)

const (
	// DefaultMaxUploadBytes caps the request body of an upload.
	DefaultMaxUploadBytes = 32 << 20

	// multipartMemory is how much of a multipart form is held in memory
	// before gin spills file parts to disk.
	multipartMemory = 8 << 20
)

// Deps are the collaborators the router needs.
type Deps struct {
	Auth      *service.AuthService
	Inventory *service.InventoryService
	Status    *service.StatusService
	Uploads   *service.UploadService
	JWT       *auth.JWTManager
	Logger    *slog.Logger

	// Registry backs /metrics and the request collectors. Nil disables both.
	Registry *prometheus.Registry

	CORSOrigins []string

	// MaxUploadBytes caps the upload request body. Zero means
	// DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = multipartMemory

	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))
	if d.Registry != nil {
		r.Use(middleware.NewMetrics(d.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}
	if len(d.CORSOrigins) > 0 {
		r.Use(middleware.CORS(d.CORSOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{
		auth:      d.Auth,
		inventory: d.Inventory,
		status:    d.Status,
		uploads:   d.Uploads,
		logger:    d.Logger,
		maxUpload: maxUpload,
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)
		v1.GET("/users", h.listUsers)
		v1.GET("/db-status", h.dbStatus)
		v1.POST("/upload", h.upload)

		inv := v1.Group("/inventory", middleware.RequireAuth(d.JWT))
		inv.GET("", h.listItems)
		inv.POST("", h.createItem)
		inv.PUT("/:id", h.updateItem)
		inv.DELETE("/:item_id", h.deleteItem)
	}

	return r
}
