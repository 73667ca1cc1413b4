package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/server/services"
	"github.com/gin-gonic/gin"
)

type destinationRequest struct {
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Notes     *string  `json:"notes" binding:"omitempty,max=2000"`
	Visited   bool     `json:"visited"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r destinationRequest) input() services.DestinationInput {
	return services.DestinationInput{
		City:      r.City,
		Country:   r.Country,
		Notes:     r.Notes,
		Visited:   r.Visited,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// currentUser reads the id placed by bearerAuth.
func (s *Server) currentUser(c *gin.Context) (string, bool) {
	id, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		s.writeError(c, common.ErrorUnauthorized)
	}
	return id, ok
}

func (s *Server) destinationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(c, common.NewValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (s *Server) listDestinations(c *gin.Context) {
	userID, ok := s.currentUser(c)
	if !ok {
		return
	}

	list, err := s.destinations.List(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getDestination(c *gin.Context) {
	userID, ok := s.currentUser(c)
	if !ok {
		return
	}
	id, ok := s.destinationID(c)
	if !ok {
		return
	}

	d, err := s.destinations.Get(c.Request.Context(), userID, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) createDestination(c *gin.Context) {
	userID, ok := s.currentUser(c)
	if !ok {
		return
	}
	var req destinationRequest
	if !s.bindJSON(c, &req) {
		return
	}

	d, err := s.destinations.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) updateDestination(c *gin.Context) {
	userID, ok := s.currentUser(c)
	if !ok {
		return
	}
	id, ok := s.destinationID(c)
	if !ok {
		return
	}
	var req destinationRequest
	if !s.bindJSON(c, &req) {
		return
	}

	d, err := s.destinations.Update(c.Request.Context(), userID, id, req.input())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) deleteDestination(c *gin.Context) {
	userID, ok := s.currentUser(c)
	if !ok {
		return
	}
	id, ok := s.destinationID(c)
	if !ok {
		return
	}

	if err := s.destinations.Delete(c.Request.Context(), userID, id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) destinationStats(c *gin.Context) {
	userID, ok := s.currentUser(c)
	if !ok {
		return
	}

	st, err := s.destinations.Stats(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) exportDestinations(c *gin.Context) {
	userID, ok := s.currentUser(c)
	if !ok {
		return
	}

	exp, err := s.destinations.Export(c.Request.Context(), userID, c.DefaultQuery("format", "csv"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	c.Data(http.StatusOK, exp.ContentType, exp.Data)
}
