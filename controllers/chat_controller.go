package controllers

import (
	"net/http"

	"github.com/KibitoU7xC/recover.ai-app/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type ChatController struct {
	hub   *services.ChatHub
	users services.UserStore
}

func NewChatController(hub *services.ChatHub, users services.UserStore) *ChatController {
	return &ChatController{hub: hub, users: users}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// ChatWS upgrades to a websocket and relays community messages until the
// client disconnects.
func (cc *ChatController) ChatWS(c *gin.Context) {
	user, err := cc.users.GetByID(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &services.ChatClient{UserID: user.ID, Name: user.Name, Conn: conn}
	cc.hub.Register(client)
	defer cc.hub.Unregister(client)

	for {
		var payload services.ChatPayload
		if err := conn.ReadJSON(&payload); err != nil {
			return
		}
		cc.hub.Handle(client, payload)
	}
}

// History returns all community messages, oldest first.
func (cc *ChatController) History(c *gin.Context) {
	messages, err := cc.hub.History()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}
