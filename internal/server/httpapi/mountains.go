package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/server/services"
)

// pathID parses the :id segment. A non-numeric id can never name a
// resource, so it reads as not found.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func (s *Server) listMountains(c *gin.Context) {
	ms, err := s.mountains.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMountainResponses(ms))
}

func (s *Server) getMountain(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	m, err := s.mountains.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMountainResponse(m))
}

func (s *Server) createMountain(c *gin.Context) {
	var in services.MountainInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, bindError())
		return
	}

	m, err := s.mountains.Create(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMountainResponse(m))
}

func (s *Server) updateMountain(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var in services.MountainInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, bindError())
		return
	}

	m, err := s.mountains.Update(c.Request.Context(), principalFrom(c), id, in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMountainResponse(m))
}

func (s *Server) deleteMountain(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.mountains.Delete(c.Request.Context(), principalFrom(c), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
