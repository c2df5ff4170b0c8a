package http

import (
	"net/http"

	"github.com/dkeye/huddle/internal/app/orch"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type roomRequest struct {
	RoomName string `json:"roomName" form:"roomName"`
}

type roomHandlers struct {
	catalog core.RoomCatalog
	orch    *orch.Orchestrator
}

func (h *roomHandlers) bind(c *gin.Context) (domain.RoomName, bool) {
	var req roomRequest
	if err := c.ShouldBind(&req); err != nil || req.RoomName == "" {
		abortWithError(c, domain.Required("roomName"))
		return "", false
	}
	return domain.RoomName(req.RoomName), true
}

func (h *roomHandlers) create(c *gin.Context) {
	name, ok := h.bind(c)
	if !ok {
		return
	}
	room, err := h.catalog.Create(c.Request.Context(), name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	log.Info().Str("module", "adapters.http").Str("room", string(room.Name)).Str("room_id", room.ID.String()).Msg("room created")
	c.JSON(http.StatusCreated, room)
}

// join only checks that the room exists; membership happens on the socket.
func (h *roomHandlers) join(c *gin.Context) {
	name, ok := h.bind(c)
	if !ok {
		return
	}
	room, err := h.catalog.Exists(c.Request.Context(), name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *roomHandlers) list(c *gin.Context) {
	rooms, err := h.catalog.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *roomHandlers) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}
