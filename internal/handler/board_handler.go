package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	sess BoardSession
}

func NewBoardHandler(sess BoardSession) *BoardHandler {
	return &BoardHandler{sess: sess}
}

// GetBoard godoc
// @Summary      Board snapshot
// @Description  Returns the same payload a websocket client receives as initialData
// @Tags         Board
// @Produce      json
// @Success      200  {object}  protocol.InitialData
// @Router       /board [get]
func (h *BoardHandler) GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, h.sess.InitialData())
}

// Health godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *BoardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"onlineUsers": h.sess.InitialData().OnlineUsers,
	})
}
