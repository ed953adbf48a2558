// Package itemserver serves an item collection from a JSON file over HTTP,
// in the shape the search client expects (GET /items).
package itemserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muderick/searchfav/internal/items"
	"go.uber.org/zap"
)

// Load reads path, which holds either a JSON array of items or an object
// with an "items" array (json-server's db.json layout).
func Load(path string, log *zap.Logger) ([]items.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		return items.Decode(data, log)
	}

	var db map[string]json.RawMessage
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	raw, ok := db["items"]
	if !ok {
		return nil, errors.New(`no "items" collection in ` + path)
	}
	return items.Decode(raw, log)
}

// NewRouter builds the gin engine. The file is re-read on every request so
// edits show up without a restart.
func NewRouter(path string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/items", func(c *gin.Context) {
		all, err := Load(path, log)
		if err != nil {
			log.Error("loading items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, all)
	})

	r.GET("/items/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		all, err := Load(path, log)
		if err != nil {
			log.Error("loading items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for _, it := range all {
			if it.ID == id {
				c.JSON(http.StatusOK, it)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	})

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
