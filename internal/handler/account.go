package handler

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/synvoy/backend/internal/config"
	"github.com/synvoy/backend/internal/model"
	"github.com/synvoy/backend/internal/queue"
	"github.com/synvoy/backend/internal/repository"
	queue_publisher "github.com/synvoy/backend/internal/service"
	"github.com/synvoy/backend/internal/utils"
)

// AccountHandler implements the soft account-deletion flow: deleting an
// account deactivates it and emails a cancellation code. Logging in is
// impossible while the account is inactive, and the cancellation code
// restores it.
type AccountHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.VerificationTokenRepo
}

func NewAccountHandler(cfg config.Config, u *repository.UserRepo, t *repository.VerificationTokenRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Users: u, Tokens: t}
}

// Delete handles DELETE /v1/account. The account is marked inactive and a
// deletion-cancellation token is mailed to the owner.
func (h *AccountHandler) Delete(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if err := h.Users.UpdateStatus(ctx, uid, model.StatusInactive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}

	// Cancellation email is best effort; the deactivation stands either way.
	raw, err := utils.NewOpaqueToken(32)
	if err == nil {
		exp := time.Now().UTC().Add(verificationTokenTTL)
		if err := h.Tokens.DeleteByUserAndPurpose(ctx, uid, model.PurposeDeleteCancel); err == nil {
			if err := h.Tokens.Store(ctx, uid, utils.HashOpaqueToken(raw), model.PurposeDeleteCancel, exp); err == nil {
				if err := queue_publisher.PublishEmailRequested(ctx, queue.NewDeletionCancelEmail(u.Email, u.FirstName, raw)); err != nil {
					log.Printf("account: queue deletion email for user %d failed: %v", uid, err)
				}
			}
		}
	}

	return c.JSON(http.StatusAccepted, echo.Map{"message": "account deactivated"})
}

// CancelDeletion handles POST /v1/account/cancel-deletion. A valid
// cancellation token reactivates the account; the token is single-use.
func (h *AccountHandler) CancelDeletion(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Tokens.Consume(ctx, utils.HashOpaqueToken(strings.TrimSpace(req.Token)), model.PurposeDeleteCancel)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := h.Users.UpdateStatus(ctx, uid, model.StatusActive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account restored"})
}
