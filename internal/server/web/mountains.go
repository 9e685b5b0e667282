package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/policy"
	"github.com/ttakano/climblog/internal/server/services"
)

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

// fieldErrors unwraps a validation failure into the per-field message map
// the form templates render; nil for any other error.
func fieldErrors(err error) map[string][]string {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

func (h *Handlers) mountainList(c *gin.Context) {
	q := c.Query("q")

	ms, err := h.mountains.List(c.Request.Context(), q)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "mountain_list.html", gin.H{
		"Principal": principalFrom(c),
		"Mountains": ms,
		"Query":     q,
	})
}

// recordView pairs a record with its resolved photo URL for templates.
type recordView struct {
	*models.ClimbRecord
	PhotoURL string
}

func (h *Handlers) recordViews(c *gin.Context, recs []*models.ClimbRecord) ([]recordView, error) {
	out := make([]recordView, 0, len(recs))
	for _, rec := range recs {
		url, err := h.records.PhotoURL(c.Request.Context(), rec.PhotoKey)
		if err != nil {
			return nil, err
		}
		out = append(out, recordView{ClimbRecord: rec, PhotoURL: url})
	}
	return out, nil
}

func (h *Handlers) renderMountainDetail(c *gin.Context, m *models.Mountain, errs map[string][]string) {
	recs, err := h.records.ListByMountain(c.Request.Context(), m.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	views, err := h.recordViews(c, recs)
	if err != nil {
		h.renderError(c, err)
		return
	}

	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusBadRequest
	}
	c.HTML(status, "mountain_detail.html", gin.H{
		"Principal": principalFrom(c),
		"Mountain":  m,
		"Records":   views,
		"Errors":    errs,
	})
}

func (h *Handlers) mountainDetail(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	m, err := h.mountains.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderMountainDetail(c, m, nil)
}

func mountainInputFromForm(c *gin.Context) (services.MountainInput, map[string][]string) {
	name := c.PostForm("name")
	prefecture := c.PostForm("prefecture")

	in := services.MountainInput{Name: &name, Prefecture: &prefecture}

	if raw := c.PostForm("elevation"); raw != "" {
		elevation, err := strconv.Atoi(raw)
		if err != nil {
			return in, map[string][]string{"elevation": {"must be a whole number of meters"}}
		}
		in.Elevation = &elevation
	}
	return in, nil
}

func (h *Handlers) renderMountainForm(c *gin.Context, status int, m *models.Mountain, errs map[string][]string) {
	c.HTML(status, "mountain_form.html", gin.H{
		"Principal": principalFrom(c),
		"Mountain":  m,
		"Errors":    errs,
	})
}

func (h *Handlers) mountainAddForm(c *gin.Context) {
	if h.requirePrincipal(c) == nil {
		return
	}
	h.renderMountainForm(c, http.StatusOK, nil, nil)
}

func (h *Handlers) mountainAdd(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}

	in, errs := mountainInputFromForm(c)
	if errs == nil {
		var m *models.Mountain
		var err error
		if m, err = h.mountains.Create(c.Request.Context(), p, in); err == nil {
			c.Redirect(http.StatusFound, "/mountain/"+strconv.FormatInt(m.ID, 10))
			return
		} else if errs = fieldErrors(err); errs == nil {
			h.renderError(c, err)
			return
		}
	}

	h.renderMountainForm(c, http.StatusBadRequest, &models.Mountain{
		Name:       c.PostForm("name"),
		Prefecture: c.PostForm("prefecture"),
	}, errs)
}

func (h *Handlers) mountainEditForm(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}
	if err := policy.CanMutateMountain(p).Err(); err != nil {
		h.renderError(c, err)
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	m, err := h.mountains.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderMountainForm(c, http.StatusOK, m, nil)
}

func (h *Handlers) mountainEdit(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	in, errs := mountainInputFromForm(c)
	if errs == nil {
		if _, err := h.mountains.Update(c.Request.Context(), p, id, in); err == nil {
			c.Redirect(http.StatusFound, "/mountain/"+strconv.FormatInt(id, 10))
			return
		} else if errs = fieldErrors(err); errs == nil {
			h.renderError(c, err)
			return
		}
	}

	h.renderMountainForm(c, http.StatusBadRequest, &models.Mountain{
		ID:         id,
		Name:       c.PostForm("name"),
		Prefecture: c.PostForm("prefecture"),
	}, errs)
}

func (h *Handlers) mountainDeleteForm(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}
	if err := policy.CanMutateMountain(p).Err(); err != nil {
		h.renderError(c, err)
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	m, err := h.mountains.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "mountain_confirm_delete.html", gin.H{
		"Principal": principalFrom(c),
		"Mountain":  m,
	})
}

func (h *Handlers) mountainDelete(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if err := h.mountains.Delete(c.Request.Context(), p, id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
