package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/server/services"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, bindError())
		return
	}

	u, err := s.users.Register(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(u))
}
