package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
)

// Client WebSocket 클라이언트
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserEmail     string
	Send          chan []byte
	MessageCount  int       // 최근 1초간 받은 메시지 수
	LastResetTime time.Time // 마지막 카운터 리셋 시간
	RateMu        sync.Mutex
}

// Hub WebSocket 연결 관리자
type Hub struct {
	// 등록된 클라이언트들 (이메일 -> []*Client - 멀티 디바이스 지원)
	clients map[string][]*Client

	// 클라이언트 등록
	register chan *Client

	// 클라이언트 등록 해제
	unregister chan *Client

	// 사용자별 직접 전송
	direct chan *DirectMessage

	mu sync.RWMutex
}

// DirectMessage 특정 사용자에게 보내는 메시지
type DirectMessage struct {
	UserEmail string
	Message   []byte
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		direct:     make(chan *DirectMessage, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// 멀티 디바이스 지원: 클라이언트 리스트에 추가
			h.clients[client.UserEmail] = append(h.clients[client.UserEmail], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_email":     client.UserEmail,
				"total_sessions": len(h.clients[client.UserEmail]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserEmail]; ok {
				// 해당 클라이언트만 리스트에서 제거
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					// 마지막 세션이면 맵에서 삭제
					delete(h.clients, client.UserEmail)
				} else {
					h.clients[client.UserEmail] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_email":         client.UserEmail,
				"remaining_sessions": len(h.clients[client.UserEmail]),
			})

		case message := <-h.direct:
			h.mu.RLock()
			// 멀티 디바이스: 모든 세션에 전송
			if clientList, ok := h.clients[message.UserEmail]; ok {
				for _, client := range clientList {
					select {
					case client.Send <- message.Message:
						// 전송 성공
					default:
						// Send 채널이 막혀있음 - 비동기로 정리
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_email": message.UserEmail,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToUser 특정 사용자에게 메시지 전송
func (h *Hub) SendToUser(userEmail string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	select {
	case h.direct <- &DirectMessage{
		UserEmail: userEmail,
		Message:   data,
	}:
		return nil
	default:
		logger.Warn("Direct channel full, message dropped", map[string]interface{}{
			"user_email": userEmail,
		})
		return nil // 메시지 손실을 허용 (주요 로직에 영향 없음)
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline 사용자 온라인 여부 확인
func (h *Hub) IsUserOnline(userEmail string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userEmail]
	return ok
}

// HandleClientMessage 클라이언트 메시지 처리
// 인보이스 포털의 WebSocket은 서버 -> 클라이언트 단방향 푸시만 사용하므로
// 수신 메시지는 rate limit 체크 후 무시한다.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	// Rate limiting 체크
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		// 1초가 지났으면 카운터 리셋
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_email": client.UserEmail,
			"count":      count,
		})
		return
	}

	logger.Debug("WebSocket client message ignored", map[string]interface{}{
		"user_email": client.UserEmail,
		"size":       len(message),
	})
}
