package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/server/auth"
	"github.com/ttakano/climblog/internal/server/services"
)

func (h *Handlers) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Principal": principalFrom(c),
	})
}

func (h *Handlers) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	p, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error":    "invalid username or password",
			"Username": username,
		})
		return
	}

	token, err := auth.GenerateToken(p.ID, []byte(h.config.SecretKey), h.config.SessionValidityDuration)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handlers) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handlers) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Principal": principalFrom(c),
	})
}

func (h *Handlers) register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Username: &username,
		Email:    &email,
		Password: &password,
	})
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{
				"Errors":   errs,
				"Username": username,
				"Email":    email,
			})
			return
		}
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/login")
}
