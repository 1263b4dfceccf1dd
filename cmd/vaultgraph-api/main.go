// Package main serves vaultgraph's read-only inspection API: the same
// Facade queries the CLI exposes, reachable over HTTP as JSON. Narrowed to
// GET-only vault/note/graph queries; scanning and analysis stay CLI-driven
// operations, so there is no mutation over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arkanvault/vaultgraph/internal/config"
	"github.com/arkanvault/vaultgraph/internal/facade"
	"github.com/arkanvault/vaultgraph/internal/store"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadFromYAMLOrDefault(configPath)
	if err != nil {
		log.Fatalf("vaultgraph-api: load config: %v", err)
	}
	if !cfg.API.Enabled {
		log.Fatalf("vaultgraph-api: api.enabled is false in %s", configPath)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		log.Fatalf("vaultgraph-api: open store: %v", err)
	}
	defer s.Close()

	f := facade.New(s, cfg, logger)

	router := gin.Default()
	setupRoutes(router, f)

	srv := &http.Server{Addr: cfg.API.Addr, Handler: router}

	go func() {
		logger.Info("api server listening", "addr", cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("vaultgraph-api: listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("vaultgraph-api: shutdown: %v", err)
	}
}

func setupRoutes(router *gin.Engine, f *facade.Facade) {
	router.Use(corsMiddleware())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/vaults", listVaults(f))
		v1.GET("/vaults/:id", getVault(f))
		v1.GET("/vaults/:id/stats", getVaultStats(f))
		v1.GET("/vaults/:id/notes", listNotes(f))
		v1.GET("/vaults/:id/hubs", getHubNotes(f))
		v1.GET("/vaults/:id/orphans", getOrphanNotes(f))
		v1.GET("/vaults/:id/broken-links", getBrokenLinks(f))
		v1.GET("/vaults/:id/clusters", getClusters(f))
		v1.GET("/notes/:id", getNote(f))
		v1.GET("/notes/:id/metrics", getNoteMetrics(f))
		v1.GET("/notes/:id/ego", getEgoGraph(f))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondError(c *gin.Context, err error) {
	var fe *facade.Error
	status := http.StatusInternalServerError
	kind := "StoreError"
	if errors.As(err, &fe) {
		kind = string(fe.Kind)
		switch fe.Kind {
		case facade.KindVaultNotFound, facade.KindNoteNotFound:
			status = http.StatusNotFound
		case facade.KindInvalidPath:
			status = http.StatusBadRequest
		}
	}
	c.JSON(status, gin.H{"error": gin.H{"kind": kind, "message": err.Error()}})
}

func listVaults(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		vaults, err := f.ListVaults()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vaults)
	}
}

func getVault(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := f.GetVault(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func getVaultStats(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := f.GetVaultStats(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func listNotes(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 0)
		offset := queryInt(c, "offset", 0)
		notes, err := f.GetNotes(c.Param("id"), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, notes)
	}
}

func getHubNotes(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		minLinks := queryInt(c, "min_links", 0)
		notes, err := f.GetHubNotes(c.Param("id"), minLinks)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, notes)
	}
}

func getOrphanNotes(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 0)
		notes, err := f.GetOrphanNotes(c.Param("id"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, notes)
	}
}

func getBrokenLinks(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 0)
		links, err := f.GetBrokenLinks(c.Param("id"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, links)
	}
}

func getClusters(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		minSize := queryInt(c, "min_size", 0)
		clusters, err := f.FindClusters(c.Param("id"), minSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, clusters)
	}
}

func getNote(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := f.GetNote(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, n)
	}
}

func getNoteMetrics(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := f.GetNoteMetrics(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func getEgoGraph(f *facade.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		vaultID := c.Query("vault_id")
		if vaultID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "InvalidPath", "message": "vault_id query parameter is required"}})
			return
		}
		radius := queryInt(c, "radius", 1)
		ego, err := f.GetEgoGraph(vaultID, c.Param("id"), radius)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ego)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
