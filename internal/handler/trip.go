package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/synvoy/backend/internal/database"
	"github.com/synvoy/backend/internal/model"
	"github.com/synvoy/backend/internal/repository"
)

// TripHandler implements trip planning: trips, their destinations and
// participants. Only the owner mutates a trip; participants get read
// access. Participants must be accepted connections of the owner.
type TripHandler struct {
	DB          *sql.DB
	Trips       *repository.TripRepo
	Connections *repository.ConnectionRepo
}

func NewTripHandler(db *sql.DB, t *repository.TripRepo, cn *repository.ConnectionRepo) *TripHandler {
	return &TripHandler{DB: db, Trips: t, Connections: cn}
}

type tripReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartsOn    string  `json:"starts_on"` // YYYY-MM-DD, optional
	EndsOn      string  `json:"ends_on"`   // YYYY-MM-DD, optional
}
type participantReq struct {
	UserID uint64 `json:"user_id"`
}
type destinationReq struct {
	Name      string  `json:"name"`
	Country   *string `json:"country"`
	ArrivesOn string  `json:"arrives_on"` // YYYY-MM-DD, optional
	DepartsOn string  `json:"departs_on"` // YYYY-MM-DD, optional
}

type tripResp struct {
	ID          uint64     `json:"id"`
	OwnerID     uint64     `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartsOn    *string    `json:"starts_on,omitempty"`
	EndsOn      *string    `json:"ends_on,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type destinationResp struct {
	ID        uint64  `json:"id"`
	TripID    uint64  `json:"trip_id"`
	Name      string  `json:"name"`
	Country   *string `json:"country,omitempty"`
	ArrivesOn *string `json:"arrives_on,omitempty"`
	DepartsOn *string `json:"departs_on,omitempty"`
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toTripResp(t model.Trip) tripResp {
	return tripResp{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		StartsOn:    dateString(t.StartsOn),
		EndsOn:      dateString(t.EndsOn),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toDestinationResp(d model.Destination) destinationResp {
	return destinationResp{
		ID:        d.ID,
		TripID:    d.TripID,
		Name:      d.Name,
		Country:   d.Country,
		ArrivesOn: dateString(d.ArrivesOn),
		DepartsOn: dateString(d.DepartsOn),
	}
}

func (h *TripHandler) bindTripReq(c echo.Context) (tripReq, *time.Time, *time.Time, bool) {
	var req tripReq
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return req, nil, nil, false
	}
	starts, ok1 := parseDate(req.StartsOn)
	ends, ok2 := parseDate(req.EndsOn)
	if !ok1 || !ok2 {
		return req, nil, nil, false
	}
	if starts != nil && ends != nil && ends.Before(*starts) {
		return req, nil, nil, false
	}
	return req, starts, ends, true
}

// loadTrip fetches a trip and checks access. write=true requires ownership;
// otherwise owner or participant suffices. The returned bool reports
// whether a response has already been written.
func (h *TripHandler) loadTrip(c echo.Context, uid uint64, write bool) (model.Trip, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return model.Trip{}, false
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Trips.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.Trip{}, false
	}
	if t.OwnerID == uid {
		return t, true
	}
	if write {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return model.Trip{}, false
	}
	isPart, err := h.Trips.IsParticipant(ctx, t.ID, uid)
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		return model.Trip{}, false
	}
	if !isPart {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return model.Trip{}, false
	}
	return t, true
}

// Create handles POST /v1/trips.
func (h *TripHandler) Create(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	req, starts, ends, ok := h.bindTripReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and valid dates required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Trips.Create(ctx, uid, req.Title, req.Description, starts, ends)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create trip failed"})
	}
	t, err := h.Trips.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load trip failed"})
	}
	return c.JSON(http.StatusCreated, toTripResp(t))
}

// List handles GET /v1/trips: trips the user owns or participates in.
func (h *TripHandler) List(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	trips, err := h.Trips.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]tripResp, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/trips/:id, including the trip's destinations.
func (h *TripHandler) Get(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	t, ok := h.loadTrip(c, uid, false)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	dests, err := h.Trips.ListDestinations(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	destOut := make([]destinationResp, 0, len(dests))
	for _, d := range dests {
		destOut = append(destOut, toDestinationResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"trip": toTripResp(t), "destinations": destOut})
}

// Update handles PUT /v1/trips/:id (owner only).
func (h *TripHandler) Update(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	t, ok := h.loadTrip(c, uid, true)
	if !ok {
		return nil
	}
	req, starts, ends, ok := h.bindTripReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and valid dates required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Trips.Update(ctx, t.ID, req.Title, req.Description, starts, ends); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	t, err := h.Trips.GetByID(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load trip failed"})
	}
	return c.JSON(http.StatusOK, toTripResp(t))
}

// Delete handles DELETE /v1/trips/:id (owner only). Destinations and
// participants are removed in the same transaction as the trip.
func (h *TripHandler) Delete(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	t, ok := h.loadTrip(c, uid, true)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := database.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		return h.Trips.DeleteCascadeTx(ctx, tx, t.ID)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddParticipant handles POST /v1/trips/:id/participants (owner only). The
// invitee must be an accepted connection of the owner.
func (h *TripHandler) AddParticipant(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	t, ok := h.loadTrip(c, uid, true)
	if !ok {
		return nil
	}
	var req participantReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	if req.UserID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "owner is already on the trip"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	connected, err := h.Connections.AreConnected(ctx, uid, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !connected {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not connected"})
	}

	if err := h.Trips.AddParticipant(ctx, t.ID, req.UserID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already a participant"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add participant failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"trip_id": t.ID, "user_id": req.UserID})
}

// RemoveParticipant handles DELETE /v1/trips/:id/participants/:user_id.
// The owner may remove anyone; a participant may remove themselves.
func (h *TripHandler) RemoveParticipant(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	t, ok := h.loadTrip(c, uid, uid != targetID)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Trips.RemoveParticipant(ctx, t.ID, targetID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove participant failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddDestination handles POST /v1/trips/:id/destinations (owner only).
func (h *TripHandler) AddDestination(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	t, ok := h.loadTrip(c, uid, true)
	if !ok {
		return nil
	}
	var req destinationReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	arrives, ok1 := parseDate(req.ArrivesOn)
	departs, ok2 := parseDate(req.DepartsOn)
	if !ok1 || !ok2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Trips.AddDestination(ctx, t.ID, req.Name, req.Country, arrives, departs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add destination failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "trip_id": t.ID})
}

// ListDestinations handles GET /v1/trips/:id/destinations.
func (h *TripHandler) ListDestinations(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	t, ok := h.loadTrip(c, uid, false)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	dests, err := h.Trips.ListDestinations(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]destinationResp, 0, len(dests))
	for _, d := range dests {
		out = append(out, toDestinationResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteDestination handles DELETE /v1/trips/:id/destinations/:dest_id
// (owner only).
func (h *TripHandler) DeleteDestination(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	t, ok := h.loadTrip(c, uid, true)
	if !ok {
		return nil
	}
	destID, ok := pathID(c, "dest_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Trips.DeleteDestination(ctx, t.ID, destID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
