package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/mindmap"
	"github.com/concave-dev/thinkmap/internal/names"
	"github.com/concave-dev/thinkmap/internal/store"
	"github.com/concave-dev/thinkmap/internal/validate"
)

// MapStore is the map and feedback side of the store.
type MapStore interface {
	CreateMap(owner, title string) (*mindmap.Map, error)
	GetMap(owner, id string) (*mindmap.Map, error)
	ListMaps(owner string) ([]*mindmap.Map, error)
	UpdateMap(owner string, m *mindmap.Map) (*mindmap.Map, error)
	DeleteMap(owner, id string) error
	AddFeedback(fb *feedback.Feedback) error
	ListFeedback(mapID string) ([]*feedback.Feedback, error)
}

// MapCreateRequest is the body of POST /maps. An empty title gets a
// generated one.
type MapCreateRequest struct {
	Title string `json:"title"`
}

// storeFailure maps store errors to responses.
func storeFailure(c *gin.Context, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Map not found", "")
		return
	}
	if errors.Is(err, store.ErrVersionConflict) {
		respondError(c, http.StatusConflict, "Map was changed by another save", err.Error())
		return
	}
	logging.Error("%s: %v", op, err)
	respondError(c, http.StatusInternalServerError, "Failed to "+strings.ToLower(op), "")
}

// ListMaps returns the caller's maps.
//
// GET /api/v1/maps
func ListMaps(maps MapStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, _ := currentUser(c)
		list, err := maps.ListMaps(owner)
		if err != nil {
			storeFailure(c, "List maps", err)
			return
		}
		if list == nil {
			list = []*mindmap.Map{}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   list,
			"count":  len(list),
		})
	}
}

// CreateMap creates an empty map.
//
// POST /api/v1/maps
func CreateMap(maps MapStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MapCreateRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
				return
			}
		}
		if strings.TrimSpace(req.Title) == "" {
			req.Title = names.Title()
		}
		if err := validate.MapTitle(req.Title); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid title", err.Error())
			return
		}

		owner, username := currentUser(c)
		m, err := maps.CreateMap(owner, req.Title)
		if err != nil {
			storeFailure(c, "Create map", err)
			return
		}

		logging.Info("User %s created map %q (%s)", username, m.Title, logging.FormatMapID(m.ID))
		c.JSON(http.StatusCreated, gin.H{"status": "success", "data": m})
	}
}

// GetMap returns one map.
//
// GET /api/v1/maps/:id
func GetMap(maps MapStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, _ := currentUser(c)
		m, err := maps.GetMap(owner, c.Param("id"))
		if err != nil {
			storeFailure(c, "Get map", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": m})
	}
}

// UpdateMap replaces a map's content after validating its structure.
//
// PUT /api/v1/maps/:id
func UpdateMap(maps MapStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m mindmap.Map
		if err := c.ShouldBindJSON(&m); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		m.ID = c.Param("id")
		if err := m.Validate(); err != nil {
			respondError(c, http.StatusUnprocessableEntity, "Invalid map", err.Error())
			return
		}

		owner, _ := currentUser(c)
		updated, err := maps.UpdateMap(owner, &m)
		if err != nil {
			storeFailure(c, "Update map", err)
			return
		}

		logging.Debug("Saved map %s at version %d", logging.FormatMapID(updated.ID), updated.Version)
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": updated})
	}
}

// DeleteMap removes a map and its feedback history.
//
// DELETE /api/v1/maps/:id
func DeleteMap(maps MapStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, _ := currentUser(c)
		id := c.Param("id")
		if err := maps.DeleteMap(owner, id); err != nil {
			storeFailure(c, "Delete map", err)
			return
		}
		logging.Info("Deleted map %s", logging.FormatMapID(id))
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}
