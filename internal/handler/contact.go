package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/synvoy/backend/internal/config"
	"github.com/synvoy/backend/internal/queue"
	queue_publisher "github.com/synvoy/backend/internal/service"
)

// ContactHandler relays contact-form submissions to the site mailbox. The
// relay is fire-and-forget: a failure to queue the email is logged and the
// caller still gets a success response, so the form never errors out on a
// visitor because of broker or mail trouble.
type ContactHandler struct {
	Cfg config.Config
}

func NewContactHandler(cfg config.Config) *ContactHandler { return &ContactHandler{Cfg: cfg} }

type contactReq struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Subject string  `json:"subject"`
	Message string  `json:"message"`
	Phone   *string `json:"phone"`
}

// Submit handles POST /v1/contact.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	switch {
	case len(req.Name) < 2 || len(req.Name) > 100:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be 2-100 characters"})
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	case len(req.Subject) < 3 || len(req.Subject) > 200:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject must be 3-200 characters"})
	case len(req.Message) < 10 || len(req.Message) > 5000:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message must be 10-5000 characters"})
	}

	to := h.Cfg.Mail.ContactEmail
	if to == "" {
		log.Printf("contact: CONTACT_EMAIL not configured; submission from %s dropped", req.Email)
	} else {
		ctx, cancel := reqCtx(c)
		defer cancel()
		ev := queue.NewContactEmail(to, req.Name, req.Email, req.Subject, req.Message, req.Phone)
		if err := queue_publisher.PublishEmailRequested(ctx, ev); err != nil {
			log.Printf("contact: queue relay from %s failed: %v", req.Email, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Thank you for contacting us! We'll get back to you soon.",
	})
}
