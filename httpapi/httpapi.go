// Package httpapi exposes fan field planner over HTTP
package httpapi

import (
	"net/http"
	"sync"

	"github.com/LdDl/fanfield"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Store is what the API needs from persistence: links and last selection
type Store interface {
	fanfield.LinkStore
	fanfield.SelectionStore
}

// Server holds dependencies of HTTP handlers
type Server struct {
	store Store
	// runs share one store whatever planner options are, so they are serialized here
	runMu sync.Mutex
	// planners are cached per options set
	mu       sync.Mutex
	planners map[fanfield.PlannerConfig]*fanfield.Planner
}

// NewServer returns API server working on top of given store
func NewServer(store Store) *Server {
	return &Server{
		store:    store,
		planners: make(map[fanfield.PlannerConfig]*fanfield.Planner),
	}
}

// Router returns gin engine with all routes registered
func (srv *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	srv.SetupRoutes(r)
	return r
}

// SetupRoutes registers API routes on given engine
func (srv *Server) SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	api := r.Group("/api")
	{
		api.POST("/fanfield", srv.Fanfield)
		api.GET("/links", srv.GetLinks)
		api.DELETE("/links", srv.ClearLinks)
		api.GET("/selection/:key", srv.GetSelection)
		api.PUT("/selection/:key", srv.PutSelection)
	}
}

// FanfieldRequest is the body of POST /api/fanfield.
// Absent anchor/start/end are taken from stored selection; given ones are stored
type FanfieldRequest struct {
	Anchor     *fanfield.Location     `json:"anchor"`
	Start      *fanfield.Location     `json:"start"`
	End        *fanfield.Location     `json:"end"`
	Candidates []fanfield.Location    `json:"candidates"`
	Options    fanfield.PlannerConfig `json:"options"`
}

// FanfieldResponse is the answer of POST /api/fanfield
type FanfieldResponse struct {
	Links     []fanfield.Link      `json:"links"`
	Summary   fanfield.PlanSummary `json:"summary"`
	Report    string               `json:"report"`
	Clockwise bool                 `json:"clockwise"`
	Inverted  bool                 `json:"inverted"`
	Dropped   []fanfield.Location  `json:"dropped,omitempty"`
}

// Fanfield plans fan field and commits it into the store
func (srv *Server) Fanfield(c *gin.Context) {
	var req FanfieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request: " + err.Error()})
		return
	}
	planner, err := srv.planner(req.Options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	srv.runMu.Lock()
	defer srv.runMu.Unlock()
	err = fanfield.SaveRunContext(srv.store, fanfield.RunContext{Anchor: req.Anchor, Start: req.Start, End: req.End})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rc, err := fanfield.LoadRunContext(srv.store, req.Candidates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := planner.Run(rc, srv.store)
	if err != nil {
		if fanfield.IsMissingSelection(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errors.Cause(err).Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, FanfieldResponse{
		Links:     res.Plan.Links,
		Summary:   res.Plan.Summary,
		Report:    res.Plan.Summary.String(),
		Clockwise: res.Selection.Clockwise,
		Inverted:  res.Selection.Inverted,
		Dropped:   res.Selection.Dropped,
	})
}

// GetLinks returns all committed links
func (srv *Server) GetLinks(c *gin.Context) {
	links, err := srv.store.ExistingLinks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

// ClearLinks removes all links
func (srv *Server) ClearLinks(c *gin.Context) {
	if err := srv.store.ClearLinks(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func validSelectionKey(key string) bool {
	return key == fanfield.SelectionAnchor || key == fanfield.SelectionStart || key == fanfield.SelectionEnd
}

// GetSelection returns stored anchor/start/end location
func (srv *Server) GetSelection(c *gin.Context) {
	key := c.Param("key")
	if !validSelectionKey(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown selection: " + key})
		return
	}
	loc, err := srv.store.LoadSelection(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Selection is not set: " + key})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// PutSelection stores anchor/start/end location
func (srv *Server) PutSelection(c *gin.Context) {
	key := c.Param("key")
	if !validSelectionKey(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown selection: " + key})
		return
	}
	var loc fanfield.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request: " + err.Error()})
		return
	}
	if loc.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location id is required"})
		return
	}
	if err := srv.store.SaveSelection(key, loc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (srv *Server) planner(pc fanfield.PlannerConfig) (*fanfield.Planner, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if planner, ok := srv.planners[pc]; ok {
		return planner, nil
	}
	options, err := pc.Options()
	if err != nil {
		return nil, err
	}
	planner := fanfield.NewPlanner(options...)
	srv.planners[pc] = planner
	return planner, nil
}
