package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListDepartments(c *gin.Context) {
	departments, err := s.geoRepo.ListDepartments(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": departments})
}

func (s *Server) ListMunicipalities(c *gin.Context) {
	municipalities, err := s.geoRepo.ListMunicipalities(c.Request.Context(), c.Query("department"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": municipalities})
}

func (s *Server) ListActivities(c *gin.Context) {
	activities, err := s.geoRepo.ListActivities(c.Request.Context(), c.Query("search"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activities})
}
