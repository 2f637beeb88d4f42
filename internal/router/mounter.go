// internal/router/mounter.go
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/catalog/app/api"
	"github.com/joefazee/catalog/internal/deps"
)

const BasePath = "/api/v1"

// MountFunc represents a function that mounts routes for a module
type MountFunc func(*gin.RouterGroup, *deps.Container)

type Mounter struct {
	container *deps.Container
}

func NewMounter(container *deps.Container) *Mounter {
	return &Mounter{container: container}
}

// Public routes - no authentication required
func (m *Mounter) Public(engine *gin.Engine) *RouteGroup {
	group := engine.Group(BasePath)
	return &RouteGroup{group: group, container: m.container}
}

// Authorized routes - requires a token granting scope. Without a token maker the routes are open.
func (m *Mounter) Authorized(engine *gin.Engine, scope string) *RouteGroup {
	rg := &RouteGroup{group: engine.Group(BasePath), container: m.container, permission: scope}
	if m.container.TokenMaker == nil {
		if m.container.Logger != nil {
			m.container.Logger.Warn("write routes are not protected: no symmetric key configured", nil)
		}
		return rg
	}
	return rg.WithAuth(api.TokenAuth(m.container.TokenMaker)).WithPermission(api.Can(scope))
}

type RouteGroup struct {
	group      *gin.RouterGroup
	container  *deps.Container
	permission string
}

// Mount provides a fluent interface for mounting modules
func (rg *RouteGroup) Mount(mountFunc MountFunc) *RouteGroup {
	mountFunc(rg.group, rg.container)
	return rg
}

// Group creates a sub-group for organizing routes
func (rg *RouteGroup) Group(path string) *RouteGroup {
	subGroup := rg.group.Group(path)
	return &RouteGroup{group: subGroup, container: rg.container, permission: rg.permission}
}

// WithAuth adds authentication middleware
func (rg *RouteGroup) WithAuth(authMiddleware gin.HandlerFunc) *RouteGroup {
	rg.group.Use(authMiddleware)
	return rg
}

// WithPermission adds permission middleware
func (rg *RouteGroup) WithPermission(permissionMiddleware gin.HandlerFunc) *RouteGroup {
	rg.group.Use(permissionMiddleware)
	return rg
}

// Permission is the scope required by the group, empty for public groups.
func (rg *RouteGroup) Permission() string {
	return rg.permission
}
