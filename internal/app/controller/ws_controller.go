package controller

import (
	"net/http"
	"time"

	apperrors "github.com/FullFarming/v0-invoice-management-system/internal/errors"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	ws "github.com/FullFarming/v0-invoice-management-system/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// 허용된 도메인 목록
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true, // 개발 환경
			"http://localhost:5173": true, // 개발 환경
		}
		return allowedOrigins[origin]
	},
}

// WSController 인보이스 이벤트 실시간 푸시용 WebSocket 연결 핸들러
type WSController struct {
	hub *ws.Hub
}

func NewWSController(hub *ws.Hub) *WSController {
	return &WSController{hub: hub}
}

// Connect upgrades the request to a WebSocket connection
// GET /api/v1/ws?token=<jwt>
func (ctrl *WSController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userEmail, ok := middleware.GetUserEmail(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:           ctrl.hub,
		Conn:          &ws.Conn{Conn: conn},
		UserEmail:     userEmail,
		Send:          make(chan []byte, 2048),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_email": userEmail,
	})
}
