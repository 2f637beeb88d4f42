package categories

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joefazee/catalog/internal/cache"
	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/metrics"
	"github.com/joefazee/catalog/internal/sanitizer"
)

// ServiceKey registers the category service in the dependency container.
const ServiceKey = "categories"

// Dependencies represent the dependencies needed for the categories module
type Dependencies struct {
	DB        *gorm.DB
	Nodes     cache.Cache[NodeEntry]
	Tree      cache.Cache[TreeEntry]
	KeyPrefix string
	Config    Config
	Logger    logger.Logger
	Sanitizer sanitizer.Sanitizer
	Metrics   *metrics.Collector
}

// Module is the wired categories feature. Build it once and mount it on both route groups
// so reads and writes share a coordinator.
type Module struct {
	Coordinator *Coordinator
	Service     Service
	Handler     *Handler
}

// NewModule wires repository, caches, coordinator, service and handler.
func NewModule(deps Dependencies) *Module {
	log := deps.Logger
	if log == nil {
		log = logger.NewNullLogger()
	}

	cfg := deps.Config
	if cfg.NodeTTL <= 0 {
		cfg.NodeTTL = DefaultNodeTTL
	}
	if cfg.TreeTTL <= 0 {
		cfg.TreeTTL = DefaultTreeTTL
	}

	// Initialize repository
	repo := NewRepository(deps.DB)

	coord := NewCoordinator(
		repo,
		NewNodeCache(deps.Nodes, deps.KeyPrefix, cfg.NodeTTL),
		NewTreeCache(deps.Tree, deps.KeyPrefix, cfg.TreeTTL),
		log,
		deps.Metrics,
	)
	coord.SetRebuildTimeout(cfg.RebuildTimeout)

	// Initialize service
	srvs := NewService(repo, coord, deps.Sanitizer, log)

	return &Module{
		Coordinator: coord,
		Service:     srvs,
		Handler:     NewHandler(srvs, log),
	}
}

// Init mounts the read routes
func (m *Module) Init(r *gin.RouterGroup) {
	categoriesGroup := r.Group("/categories")
	categoriesGroup.GET("/tree", m.Handler.GetCategoryTree)
	categoriesGroup.GET("/tree/search", m.Handler.SearchTree)
	categoriesGroup.GET("/search", m.Handler.SearchCategories)
	categoriesGroup.GET("/statistics", m.Handler.GetStatistics)
	categoriesGroup.GET("/menu", m.Handler.GetMenu)
	categoriesGroup.GET("/:id", m.Handler.GetCategoryByID)
	categoriesGroup.GET("/:id/children", m.Handler.GetChildren)
	categoriesGroup.GET("/:id/subtree", m.Handler.SearchSubtree)
}

// InitWithAuth mounts the write routes
func (m *Module) InitWithAuth(r *gin.RouterGroup) {
	categoriesGroup := r.Group("/categories")
	categoriesGroup.POST("", m.Handler.CreateCategory)
	categoriesGroup.PUT("/:id", m.Handler.UpdateCategory)
	categoriesGroup.DELETE("/:id", m.Handler.DeleteCategory)
	categoriesGroup.DELETE("/:id/permanent", m.Handler.PermanentDeleteCategory)
	categoriesGroup.POST("/cache/refresh", m.Handler.RefreshCache)
}
