package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/validate"
)

// RequestFeedback generates feedback for a batch of edits to a map and
// appends it to the map's history.
//
// POST /api/v1/maps/:id/feedback
func RequestFeedback(maps MapStore, gen feedback.Generator, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req feedback.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := validate.Struct(req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid feedback request", err.Error())
			return
		}

		owner, _ := currentUser(c)
		m, err := maps.GetMap(owner, c.Param("id"))
		if err != nil {
			storeFailure(c, "Load map", err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		fb, err := feedback.Produce(ctx, gen, m, req)
		if err != nil {
			logging.Error("Feedback generation failed for map %s: %v", logging.FormatMapID(m.ID), err)
			respondError(c, http.StatusBadGateway, "Feedback generation failed", err.Error())
			return
		}

		if err := maps.AddFeedback(fb); err != nil {
			// The author still gets the feedback; only history is affected.
			logging.Warn("Failed to store feedback for map %s: %v", logging.FormatMapID(m.ID), err)
		}

		logging.Info("Generated feedback for map %s (%d operations, %s)",
			logging.FormatMapID(m.ID), fb.OperationCount, fb.Generator)
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"feedback": fb}})
	}
}

// ListFeedback returns a map's feedback history, oldest first.
//
// GET /api/v1/maps/:id/feedback
func ListFeedback(maps MapStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, _ := currentUser(c)
		m, err := maps.GetMap(owner, c.Param("id"))
		if err != nil {
			storeFailure(c, "Load map", err)
			return
		}

		list, err := maps.ListFeedback(m.ID)
		if err != nil {
			storeFailure(c, "List feedback", err)
			return
		}
		if list == nil {
			list = []*feedback.Feedback{}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   list,
			"count":  len(list),
		})
	}
}
