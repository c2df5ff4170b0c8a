package http

import (
	"net/http"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type userHandlers struct {
	store core.UserStore
}

func (h *userHandlers) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		abortWithError(c, domain.Required("username", "password"))
		return
	}
	user, err := h.store.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	log.Info().Str("module", "adapters.http").Str("username", user.Username).Msg("user registered")
	c.JSON(http.StatusCreated, user)
}

// login stores the username in the cookie session. The websocket identity
// is still whatever the client sends with its events.
func (h *userHandlers) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		abortWithError(c, domain.Required("username", "password"))
		return
	}
	user, err := h.store.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s := sessions.Default(c)
	s.Set(sessionUserKey, user.Username)
	if err := s.Save(); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *userHandlers) logout(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := s.Save(); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandlers) me(c *gin.Context) {
	username, _ := sessions.Default(c).Get(sessionUserKey).(string)
	if username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}
