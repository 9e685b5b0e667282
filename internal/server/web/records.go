package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/policy"
	"github.com/ttakano/climblog/internal/server/services"
)

func recordInputFromForm(c *gin.Context) services.RecordInput {
	climbDate := c.PostForm("climb_date")
	comment := c.PostForm("comment")
	return services.RecordInput{ClimbDate: &climbDate, Comment: &comment}
}

// recordAdd handles the inline climb form on the mountain detail page.
func (h *Handlers) recordAdd(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
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

	in := recordInputFromForm(c)
	in.Mountain = &m.ID

	if _, err := h.records.Create(c.Request.Context(), p, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			h.renderMountainDetail(c, m, errs)
			return
		}
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/mountain/"+strconv.FormatInt(m.ID, 10))
}

func (h *Handlers) renderRecordForm(c *gin.Context, status int, rec *models.ClimbRecord, errs map[string][]string) {
	c.HTML(status, "record_form.html", gin.H{
		"Principal": principalFrom(c),
		"Record":    rec,
		"ClimbDate": rec.ClimbDate.Format("2006-01-02"),
		"Errors":    errs,
	})
}

// loadOwnRecord fetches a record and applies the owner gate up front, so
// the edit and delete pages are not shown to visitors who could not
// submit them anyway.
func (h *Handlers) loadOwnRecord(c *gin.Context) *models.ClimbRecord {
	p := h.requirePrincipal(c)
	if p == nil {
		return nil
	}

	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return nil
	}

	rec, err := h.records.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return nil
	}

	if err := policy.CanMutateRecord(p, rec.UserID).Err(); err != nil {
		h.renderError(c, err)
		return nil
	}
	return rec
}

func (h *Handlers) recordEditForm(c *gin.Context) {
	rec := h.loadOwnRecord(c)
	if rec == nil {
		return
	}
	h.renderRecordForm(c, http.StatusOK, rec, nil)
}

func (h *Handlers) recordEdit(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	in := recordInputFromForm(c)

	rec, err := h.records.Update(c.Request.Context(), p, id, in)
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			if cur, getErr := h.records.Get(c.Request.Context(), id); getErr == nil {
				h.renderRecordForm(c, http.StatusBadRequest, cur, errs)
				return
			}
		}
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/mountain/"+strconv.FormatInt(rec.MountainID, 10))
}

func (h *Handlers) recordDeleteForm(c *gin.Context) {
	rec := h.loadOwnRecord(c)
	if rec == nil {
		return
	}

	c.HTML(http.StatusOK, "record_confirm_delete.html", gin.H{
		"Principal": principalFrom(c),
		"Record":    rec,
		"ClimbDate": rec.ClimbDate.Format("2006-01-02"),
	})
}

func (h *Handlers) recordDelete(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// remember where to land after the delete
	rec, err := h.records.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if err := h.records.Delete(c.Request.Context(), p, id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/mountain/"+strconv.FormatInt(rec.MountainID, 10))
}

func (h *Handlers) myPage(c *gin.Context) {
	p := h.requirePrincipal(c)
	if p == nil {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	recs, total, err := h.records.ListMine(c.Request.Context(), p, page)
	if err != nil {
		h.renderError(c, err)
		return
	}

	views, err := h.recordViews(c, recs)
	if err != nil {
		h.renderError(c, err)
		return
	}

	numPages := (total + services.MyPageSize - 1) / services.MyPageSize
	if numPages < 1 {
		numPages = 1
	}

	c.HTML(http.StatusOK, "mypage.html", gin.H{
		"Principal": p,
		"Records":   views,
		"Page":      page,
		"NumPages":  numPages,
		"HasPrev":   page > 1,
		"HasNext":   page < numPages,
		"PrevPage":  page - 1,
		"NextPage":  page + 1,
	})
}
