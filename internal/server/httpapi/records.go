package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/server/services"
)

func (s *Server) listRecords(c *gin.Context) {
	ctx := c.Request.Context()

	// ?mountain=N narrows the listing to one mountain's climbs
	if q := c.Query("mountain"); q != "" {
		mountainID, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			c.JSON(http.StatusOK, []RecordResponse{})
			return
		}
		recs, err := s.records.ListByMountain(ctx, mountainID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		out, err := s.toRecordResponses(ctx, recs)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}

	recs, err := s.records.List(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out, err := s.toRecordResponses(ctx, recs)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getRecord(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	rec, err := s.records.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out, err := s.toRecordResponse(c.Request.Context(), rec)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createRecord(c *gin.Context) {
	var in services.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, bindError())
		return
	}

	rec, err := s.records.Create(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out, err := s.toRecordResponse(c.Request.Context(), rec)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) updateRecord(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var in services.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, bindError())
		return
	}

	rec, err := s.records.Update(c.Request.Context(), principalFrom(c), id, in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out, err := s.toRecordResponse(c.Request.Context(), rec)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteRecord(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.records.Delete(c.Request.Context(), principalFrom(c), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) attachPhoto(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	uploadURL, err := s.records.AttachPhoto(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": uploadURL})
}
