// Package webserver serves read-only dashboard views over the registries.
package webserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/truthlens/truthlens/src/registry"
)

// New builds the gin engine for the read-only API.
func New(reg *registry.Registry) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery(), cors.Default())
	attachRoutes(g, reg)
	return g
}

func attachRoutes(g *gin.Engine, reg *registry.Registry) {
	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := g.Group("/v1")
	{
		v1.GET("/claims", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"claims": reg.Claims()})
		})
		v1.GET("/claims/:id", func(c *gin.Context) {
			claim, ok := reg.GetClaim(c.Param("id"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"err": "claim not found"})
				return
			}
			c.JSON(http.StatusOK, claim)
		})
		v1.GET("/monitors", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"monitors": reg.Monitors()})
		})
		v1.GET("/trending", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"trending": reg.Trending(c.Query("topic"), 0)})
		})
	}
}
