package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/synvoy/backend/internal/model"
	"github.com/synvoy/backend/internal/repository"
)

// ConnectionHandler implements user-to-user connection management.
type ConnectionHandler struct {
	Connections *repository.ConnectionRepo
	Users       *repository.UserRepo
}

func NewConnectionHandler(cn *repository.ConnectionRepo, u *repository.UserRepo) *ConnectionHandler {
	return &ConnectionHandler{Connections: cn, Users: u}
}

type connectionReq struct {
	AddresseeID uint64 `json:"addressee_id"`
}
type connectionRespondReq struct {
	Action string `json:"action"` // accept | decline | block
}
type connectionResp struct {
	ID          uint64    `json:"id"`
	RequesterID uint64    `json:"requester_id"`
	AddresseeID uint64    `json:"addressee_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toConnectionResp(c model.UserConnection) connectionResp {
	return connectionResp{
		ID:          c.ID,
		RequesterID: c.RequesterID,
		AddresseeID: c.AddresseeID,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Request handles POST /v1/connections: send a connection request to
// another user. Duplicate requests in either direction return 409.
func (h *ConnectionHandler) Request(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req connectionReq
	if err := c.Bind(&req); err != nil || req.AddresseeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "addressee_id required"})
	}
	if req.AddresseeID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot connect to yourself"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.AddresseeID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Connections.Create(ctx, uid, req.AddresseeID)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "connection already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create connection failed"})
	}

	conn, err := h.Connections.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load connection failed"})
	}
	return c.JSON(http.StatusCreated, toConnectionResp(conn))
}

// Respond handles PATCH /v1/connections/:id. The addressee may accept or
// decline a pending request; either side may block.
func (h *ConnectionHandler) Respond(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req connectionRespondReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	conn, err := h.Connections.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "connection not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var status string
	switch req.Action {
	case "accept":
		if conn.AddresseeID != uid || conn.Status != model.ConnectionPending {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		status = model.ConnectionAccepted
	case "decline":
		if conn.AddresseeID != uid || conn.Status != model.ConnectionPending {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		status = model.ConnectionDeclined
	case "block":
		if conn.RequesterID != uid && conn.AddresseeID != uid {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		status = model.ConnectionBlocked
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be accept, decline or block"})
	}

	if err := h.Connections.UpdateStatus(ctx, id, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	conn.Status = status
	return c.JSON(http.StatusOK, toConnectionResp(conn))
}

// List handles GET /v1/connections.
func (h *ConnectionHandler) List(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	conns, err := h.Connections.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]connectionResp, 0, len(conns))
	for _, cn := range conns {
		out = append(out, toConnectionResp(cn))
	}
	return c.JSON(http.StatusOK, out)
}

// Remove handles DELETE /v1/connections/:id. Either party may sever the
// connection.
func (h *ConnectionHandler) Remove(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	conn, err := h.Connections.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "connection not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if conn.RequesterID != uid && conn.AddresseeID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Connections.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
