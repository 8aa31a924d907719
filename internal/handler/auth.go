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

// verificationTokenTTL bounds how long an emailed verification or
// deletion-cancellation code stays redeemable.
const verificationTokenTTL = 24 * time.Hour

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.VerificationTokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.VerificationTokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type verifyReq struct {
	Token string `json:"token"`
}

type authResp struct {
	User        userResp `json:"user"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"` // seconds
}

// Register: create user and return an access token immediately. The account
// starts unverified and active; a verification email is queued in the
// background and the 2-hour retention window starts ticking.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.FirstName, req.LastName, req.Phone, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	h.queueVerificationEmail(c, u)

	return c.JSON(http.StatusCreated, authResp{
		User:        toUserResp(u),
		AccessToken: access.Token,
		TokenType:   "bearer",
		ExpiresIn:   h.Cfg.AccessTTLMin * 60,
	})
}

// Login: verify credentials and return a fresh access token. Unknown email,
// wrong password and a non-active account all produce the same 401 so the
// response does not reveal which check failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email or password"})
	}
	if u.Status != model.StatusActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:        toUserResp(u),
		AccessToken: access.Token,
		TokenType:   "bearer",
		ExpiresIn:   h.Cfg.AccessTTLMin * 60,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// RequestVerification re-issues the email-verification token for the
// authenticated user and queues a fresh email. Any previous verification
// token is invalidated.
func (h *AuthHandler) RequestVerification(c echo.Context) error {
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
	if u.IsVerified {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already verified"})
	}

	h.queueVerificationEmail(c, u)
	return c.JSON(http.StatusAccepted, echo.Map{"message": "verification email queued"})
}

// Verify consumes a raw verification token and marks the account verified.
// Tokens are single-use; unknown, expired and already-used tokens are
// indistinguishable to the caller.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Tokens.Consume(ctx, utils.HashOpaqueToken(strings.TrimSpace(req.Token)), model.PurposeEmailVerify)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify failed"})
	}
	if err := h.Users.MarkVerified(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "email verified"})
}

// queueVerificationEmail mints a fresh opaque token for the user and
// publishes the verification email. Failures are logged only; the calling
// operation still succeeds.
func (h *AuthHandler) queueVerificationEmail(c echo.Context, u model.User) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	raw, err := utils.NewOpaqueToken(32)
	if err != nil {
		log.Printf("auth: generate verification token for user %d failed: %v", u.ID, err)
		return
	}
	if err := h.Tokens.DeleteByUserAndPurpose(ctx, u.ID, model.PurposeEmailVerify); err != nil {
		log.Printf("auth: drop stale verification tokens for user %d failed: %v", u.ID, err)
		return
	}
	exp := time.Now().UTC().Add(verificationTokenTTL)
	if err := h.Tokens.Store(ctx, u.ID, utils.HashOpaqueToken(raw), model.PurposeEmailVerify, exp); err != nil {
		log.Printf("auth: store verification token for user %d failed: %v", u.ID, err)
		return
	}
	if err := queue_publisher.PublishEmailRequested(ctx, queue.NewVerificationEmail(u.Email, u.FirstName, raw)); err != nil {
		log.Printf("auth: queue verification email for user %d failed: %v", u.ID, err)
	}
}
