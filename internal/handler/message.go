package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/synvoy/backend/internal/model"
	"github.com/synvoy/backend/internal/repository"
)

// MessageHandler implements direct messaging between connected users.
type MessageHandler struct {
	Messages    *repository.MessageRepo
	Connections *repository.ConnectionRepo
}

func NewMessageHandler(m *repository.MessageRepo, cn *repository.ConnectionRepo) *MessageHandler {
	return &MessageHandler{Messages: m, Connections: cn}
}

type sendMessageReq struct {
	RecipientID uint64 `json:"recipient_id"`
	Body        string `json:"body"`
}

type messageResp struct {
	ID          uint64     `json:"id"`
	SenderID    uint64     `json:"sender_id"`
	RecipientID uint64     `json:"recipient_id"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toMessageResp(m model.Message) messageResp {
	return messageResp{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

// Send handles POST /v1/messages. Messages may only be sent between users
// with an accepted connection; anything else is a 403.
func (h *MessageHandler) Send(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.RecipientID == 0 || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recipient_id and body required"})
	}
	if req.RecipientID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	connected, err := h.Connections.AreConnected(ctx, uid, req.RecipientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !connected {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not connected"})
	}

	id, err := h.Messages.Create(ctx, uid, req.RecipientID, req.Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Conversation handles GET /v1/messages/:peer_id?limit=N, newest first.
func (h *MessageHandler) Conversation(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	peerID, ok := pathID(c, "peer_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid peer id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	msgs, err := h.Messages.ListConversation(ctx, uid, peerID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]messageResp, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// MarkRead handles POST /v1/messages/:peer_id/read and stamps every unread
// message from the peer.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	peerID, ok := pathID(c, "peer_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid peer id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Messages.MarkRead(ctx, uid, peerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"marked_read": n})
}
