package services

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/KibitoU7xC/recover.ai-app/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MessageStore persists community chat messages.
type MessageStore interface {
	Save(msg *models.Message) error
	ListAll() ([]models.Message, error)
}

type GormMessageStore struct {
	db *gorm.DB
}

func NewGormMessageStore(db *gorm.DB) *GormMessageStore {
	return &GormMessageStore{db: db}
}

func (s *GormMessageStore) Save(msg *models.Message) error {
	return s.db.Create(msg).Error
}

func (s *GormMessageStore) ListAll() ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

// ChatClient is one connected community chat participant.
type ChatClient struct {
	UserID uint
	Name   string
	Conn   *websocket.Conn
}

// ChatPayload is the wire format exchanged with chat clients.
type ChatPayload struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// ChatHub is a single-room broadcast hub: every inbound message is
// persisted and relayed to all connected clients.
type ChatHub struct {
	mu       sync.RWMutex
	clients  map[*ChatClient]struct{}
	messages MessageStore
	logger   *logrus.Logger
}

func NewChatHub(messages MessageStore, logger *logrus.Logger) *ChatHub {
	return &ChatHub{
		clients:  make(map[*ChatClient]struct{}),
		messages: messages,
		logger:   logger,
	}
}

func (h *ChatHub) Register(c *ChatClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *ChatHub) Unregister(c *ChatClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Handle persists one inbound message and broadcasts it. A persistence
// failure is logged but does not stop the relay.
func (h *ChatHub) Handle(c *ChatClient, payload ChatPayload) {
	if payload.Text == "" {
		return
	}
	if payload.Sender == "" {
		payload.Sender = c.Name
	}

	msg := &models.Message{
		UserID: c.UserID,
		Sender: payload.Sender,
		Text:   payload.Text,
		Time:   payload.Time,
	}
	if err := h.messages.Save(msg); err != nil {
		h.logger.WithError(err).Error("failed to save chat message")
	}

	h.Broadcast(payload)
}

func (h *ChatHub) Broadcast(payload ChatPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if err := c.Conn.WriteMessage(websocket.TextMessage, raw); err != nil &&
			!errors.Is(err, websocket.ErrCloseSent) {
			h.logger.WithField("userId", c.UserID).WithError(err).
				Debug("chat broadcast write failed")
		}
	}
}

func (h *ChatHub) History() ([]models.Message, error) {
	return h.messages.ListAll()
}
