// Package web serves the server-rendered HTML surface. It sits on the
// same services as the REST API; only the presentation differs. Sessions
// are signed JWT cookies carrying the user id.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/logging"
	sc "github.com/ttakano/climblog/internal/server/config"
	"github.com/ttakano/climblog/internal/server/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Handlers struct {
	logger    logging.Logger
	config    *sc.Config
	users     *services.UserService
	mountains *services.MountainService
	records   *services.RecordService
}

func NewHandlers(l logging.Logger, cfg *sc.Config, us *services.UserService, ms *services.MountainService, rs *services.RecordService) *Handlers {
	return &Handlers{
		logger:    l.With("module", "web"),
		config:    cfg,
		users:     us,
		mountains: ms,
		records:   rs,
	}
}

// Register attaches templates and routes to the engine.
func (h *Handlers) Register(e *gin.Engine) {
	e.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	g := e.Group("/", h.sessionPrincipal())
	{
		g.GET("/", h.mountainList)
		g.GET("/mountain/add", h.mountainAddForm)
		g.POST("/mountain/add", h.mountainAdd)
		g.GET("/mountain/:id", h.mountainDetail)
		g.POST("/mountain/:id", h.recordAdd)
		g.GET("/mountain/:id/edit", h.mountainEditForm)
		g.POST("/mountain/:id/edit", h.mountainEdit)
		g.GET("/mountain/:id/delete", h.mountainDeleteForm)
		g.POST("/mountain/:id/delete", h.mountainDelete)
		g.GET("/record/:id/edit", h.recordEditForm)
		g.POST("/record/:id/edit", h.recordEdit)
		g.GET("/record/:id/delete", h.recordDeleteForm)
		g.POST("/record/:id/delete", h.recordDelete)
		g.GET("/mypage", h.myPage)
		g.GET("/login", h.loginForm)
		g.POST("/login", h.login)
		g.GET("/logout", h.logout)
		g.GET("/register", h.registerForm)
		g.POST("/register", h.register)
	}
}

// renderError is the fallback for failures that are not re-rendered into
// a form: anonymous users go to the login page, everything else gets a
// plain status page.
func (h *Handlers) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, common.ErrorForbidden):
		c.String(http.StatusForbidden, "403 forbidden")
	case errors.Is(err, common.ErrorNotFound):
		c.String(http.StatusNotFound, "404 not found")
	default:
		h.logger.Error(c.Request.Context(), err.Error())
		c.String(http.StatusInternalServerError, "500 internal error")
	}
}
