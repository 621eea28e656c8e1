package handlers

import (
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gearshed/internal/auth"
	"gearshed/internal/config"
	"gearshed/internal/email"
	"gearshed/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Server bundles what the route table needs.
type Server struct {
	DB           *sql.DB
	Config       *config.Config
	JWT          *auth.JWTManager
	EmailService *email.Service
	Metrics      *middleware.Metrics
}

func SetupRoutes(r *gin.Engine, s *Server) {
	r.Use(middleware.Recovery())
	r.Use(middleware.LogRequests())
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware())
	}
	r.Use(middleware.CORS(s.Config))
	r.Use(middleware.SecurityHeaders(s.Config))
	r.Use(middleware.NotFoundGuard(s.Config))
	r.Use(addServiceContext(s))

	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/health", handleHealth)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", middleware.AuthRateLimit(s.Config), middleware.Validate(registerSchema), handleRegister)
		authRoutes.POST("/login", middleware.AuthRateLimit(s.Config), middleware.Validate(loginSchema), handleLogin)
		authRoutes.GET("/me", middleware.AuthRequired(s.JWT), handleMe)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(s.JWT))
	protected.Use(middleware.RateLimit(s.Config))
	{
		protected.GET("/categories", handleCategories)
		protected.GET("/categories/activity-types", handleActivityTypes)
		protected.GET("/categories/:id", handleGetCategory)
		protected.POST("/categories", middleware.Validate(createCategorySchema), handleCreateCategory)
		protected.PUT("/categories/:id", middleware.Validate(updateCategorySchema), handleUpdateCategory)
		protected.DELETE("/categories/:id", handleDeleteCategory)

		protected.GET("/gear", handleGearItems)
		protected.GET("/gear/export", handleExportGear)
		protected.POST("/gear/import", handleImportGear)
		protected.GET("/gear/:id", handleGetGearItem)
		protected.GET("/gear/:id/packlists", handleGearItemPackLists)
		protected.POST("/gear", middleware.Validate(createGearSchema), handleCreateGearItem)
		protected.PUT("/gear/:id", middleware.Validate(updateGearSchema), handleUpdateGearItem)
		protected.DELETE("/gear/:id", handleDeleteGearItem)
		protected.POST("/gear/:id/wishlist", handleToggleWishlist)

		protected.GET("/packlists", handlePackLists)
		protected.GET("/packlists/:id", handleGetPackList)
		protected.POST("/packlists", middleware.Validate(createPackListSchema), handleCreatePackList)
		protected.PUT("/packlists/:id", middleware.Validate(updatePackListSchema), handleUpdatePackList)
		protected.DELETE("/packlists/:id", handleDeletePackList)
		protected.POST("/packlists/:id/items", middleware.Validate(addPackListItemSchema), handleAddPackListItem)
		protected.DELETE("/packlists/:id/items/:itemId", handleRemovePackListItem)
		protected.GET("/packlists/:id/weight", handlePackListWeight)
		protected.GET("/packlists/:id/analyze", handleAnalyzePackList)

		protected.GET("/wishlist", handleWishlist)
		protected.GET("/stats", handleStats)
	}

	if s.Config.StaticDir != "" {
		serveSPA(r, s.Config.StaticDir)
	} else {
		r.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		})
	}
}

func addServiceContext(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", s.DB)
		c.Set("jwt", s.JWT)
		c.Set("email_service", s.EmailService)
		c.Next()
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// serveSPA serves the built client from dir. Unknown paths outside /api get
// index.html so client-side routes survive a reload.
func serveSPA(r *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		file := filepath.Join(dir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	})
}
