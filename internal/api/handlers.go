package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pullconf/pullconf/internal/catalog"
	"github.com/pullconf/pullconf/internal/wire"
)

// errorBody is the structured error shape returned by every failure of
// the two authenticated endpoints (spec.md §6, "structured error
// responses").
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorBody{Error: msg, RequestID: RequestID(c)})
}

// Server bundles the dependencies the HTTP handlers need.
type Server struct {
	store   *catalog.Store
	assets  assetSource
	metrics *Metrics
}

// assetSource is the subset of *assets.Root the API depends on, so tests
// can substitute an in-memory fake without touching a real filesystem.
type assetSource interface {
	Stat(p string) (int64, error)
	Copy(w io.Writer, p string) error
}

// clientHandler serves GET /api/clients/:hostname (spec.md §6).
func (s *Server) clientHandler(c *gin.Context) {
	hostname := c.Param("hostname")

	hash, present := presentedKeyHash(c)
	if !present {
		fail(c, http.StatusUnauthorized, "missing X-API-Key header")
		return
	}

	target, ok := s.store.Get(hostname)
	if !ok {
		fail(c, http.StatusNotFound, "no such client")
		return
	}

	if hashesEqual(hash, target.APIKeyHash) {
		body, err := wire.MarshalJSON(target)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to encode catalog")
			return
		}
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	if match := findClientByHash(s.store.Snapshot(), hash); match != nil {
		fail(c, http.StatusForbidden, "API key does not match this hostname")
		return
	}
	fail(c, http.StatusUnauthorized, "invalid X-API-Key")
}

// assetHandler serves GET /assets/*path (spec.md §6).
func (s *Server) assetHandler(c *gin.Context) {
	// gin's *path wildcard captures the leading slash; the wire format's
	// "source" attributes are stored without one.
	assetPath := strings.TrimPrefix(c.Param("path"), "/")

	hash, present := presentedKeyHash(c)
	if !present {
		fail(c, http.StatusUnauthorized, "missing X-API-Key header")
		return
	}

	client := findClientByHash(s.store.Snapshot(), hash)
	if client == nil {
		fail(c, http.StatusUnauthorized, "invalid X-API-Key")
		return
	}

	if !isDeclaredSource(client, assetPath) {
		fail(c, http.StatusForbidden, "path is not a declared source of any file resource for this client")
		return
	}

	if _, err := s.assets.Stat(assetPath); err != nil {
		fail(c, http.StatusNotFound, "no such asset")
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "application/octet-stream")
	if err := s.assets.Copy(c.Writer, assetPath); err != nil {
		// headers are already flushed at this point; nothing more to report.
		return
	}
}

// isDeclaredSource checks whether path appears as the "source" attribute
// of some file resource in client's catalog (spec.md §4.H authorization
// rule).
func isDeclaredSource(client *catalog.Catalog, path string) bool {
	encoded := wire.Encode(client)
	for _, r := range encoded.Resources {
		if r.ID.Kind != "file" {
			continue
		}
		if src, ok := r.Attributes["source"].(string); ok && src == path {
			return true
		}
	}
	return false
}

// healthzHandler is the unauthenticated liveness probe (SPEC_FULL.md §5).
func (s *Server) healthzHandler(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap.Len() == 0 {
		fail(c, http.StatusServiceUnavailable, "no catalog has been published yet")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": snap.Len()})
}
