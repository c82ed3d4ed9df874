package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/config"
	"github.com/messbari/mess-booking/internal/model"
	"github.com/messbari/mess-booking/internal/repository"
)

// MessGroupHandler serves both the public browse endpoints and the
// owner-facing listing CRUD.
type MessGroupHandler struct {
	Cfg    config.Config
	Groups *repository.MessGroupRepo
}

func NewMessGroupHandler(cfg config.Config, g *repository.MessGroupRepo) *MessGroupHandler {
	return &MessGroupHandler{Cfg: cfg, Groups: g}
}

// List serves GET /v1/mess-groups with optional ?location= and
// ?category= filters. Unknown enum values are rejected up front so the
// client learns about a typo instead of silently getting zero rows.
func (h *MessGroupHandler) List(c echo.Context) error {
	location := strings.ToLower(strings.TrimSpace(c.QueryParam("location")))
	category := strings.ToLower(strings.TrimSpace(c.QueryParam("category")))
	if location != "" && !model.ValidLocation(location) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "unknown location",
			"locations": model.Locations,
		})
	}
	if category != "" && !model.ValidCategory(category) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "unknown category",
			"categories": model.Categories,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Groups.List(ctx, location, category)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "failed to list mess groups", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"messGroups": items,
		"count":      len(items),
	})
}

// Get serves GET /v1/mess-groups/:id. Soft-deleted listings answer 404
// exactly like listings that never existed.
func (h *MessGroupHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mess group id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMessGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mess group not found"})
		}
		return serverError(c, h.Cfg.Dev(), "failed to load mess group", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messGroup": d})
}

type createMessReq struct {
	Name         string   `json:"name" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Description  string   `json:"description"`
	SingleSeats  *uint32  `json:"single_seats"`
	SinglePrice  *float64 `json:"single_price" validate:"omitempty,gte=0"`
	DoubleSeats  *uint32  `json:"double_seats"`
	DoublePrice  *float64 `json:"double_price" validate:"omitempty,gte=0"`
	Amenities    []string `json:"amenities"`
	ContactPhone string   `json:"contact_phone"`
	ContactEmail string   `json:"contact_email" validate:"omitempty,email"`
	Address      string   `json:"address"`
}

// Create serves POST /v1/mess-groups for authenticated owners. New
// listings start active with the seeded rating.
func (h *MessGroupHandler) Create(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createMessReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.ToLower(strings.TrimSpace(req.Location))
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, location and category are required"})
	}
	if !model.ValidLocation(req.Location) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "unknown location",
			"locations": model.Locations,
		})
	}
	if !model.ValidCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "unknown category",
			"categories": model.Categories,
		})
	}

	mg := model.MessGroup{
		OwnerID:      callerID,
		Name:         req.Name,
		Location:     req.Location,
		Category:     req.Category,
		Description:  req.Description,
		Amenities:    req.Amenities,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
		Rating:       model.DefaultRating,
	}
	if req.SingleSeats != nil {
		mg.SingleSeats = *req.SingleSeats
	}
	if req.SinglePrice != nil {
		mg.SinglePrice = *req.SinglePrice
	}
	if req.DoubleSeats != nil {
		mg.DoubleSeats = *req.DoubleSeats
	}
	if req.DoublePrice != nil {
		mg.DoublePrice = *req.DoublePrice
	}
	if mg.Amenities == nil {
		mg.Amenities = []string{}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Groups.Create(ctx, &mg); err != nil {
		return serverError(c, h.Cfg.Dev(), "failed to create mess group", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"messGroup": mg})
}

type updateMessReq struct {
	Name         *string   `json:"name"`
	Location     *string   `json:"location"`
	Category     *string   `json:"category"`
	Description  *string   `json:"description"`
	SingleSeats  *uint32   `json:"single_seats"`
	SinglePrice  *float64  `json:"single_price" validate:"omitempty,gte=0"`
	DoubleSeats  *uint32   `json:"double_seats"`
	DoublePrice  *float64  `json:"double_price" validate:"omitempty,gte=0"`
	Amenities    *[]string `json:"amenities"`
	ContactPhone *string   `json:"contact_phone"`
	ContactEmail *string   `json:"contact_email" validate:"omitempty,email"`
	Address      *string   `json:"address"`
}

// Update serves PUT /v1/mess-groups/:id. Only fields present in the
// body change; omitted fields keep their stored value. Only the owner
// may update.
func (h *MessGroupHandler) Update(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mess group id"})
	}

	var req updateMessReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field values"})
	}
	if req.Location != nil {
		loc := strings.ToLower(strings.TrimSpace(*req.Location))
		if !model.ValidLocation(loc) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":     "unknown location",
				"locations": model.Locations,
			})
		}
		req.Location = &loc
	}
	if req.Category != nil {
		cat := strings.ToLower(strings.TrimSpace(*req.Category))
		if !model.ValidCategory(cat) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":      "unknown category",
				"categories": model.Categories,
			})
		}
		req.Category = &cat
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Groups.Update(ctx, id, callerID, repository.MessGroupUpdate{
		Name:         req.Name,
		Location:     req.Location,
		Category:     req.Category,
		Description:  req.Description,
		SingleSeats:  req.SingleSeats,
		SinglePrice:  req.SinglePrice,
		DoubleSeats:  req.DoubleSeats,
		DoublePrice:  req.DoublePrice,
		Amenities:    req.Amenities,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
	})
	if err != nil {
		switch err {
		case repository.ErrMessGroupNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mess group not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not own this mess group"})
		}
		return serverError(c, h.Cfg.Dev(), "failed to update mess group", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messGroup": d})
}

// Delete serves DELETE /v1/mess-groups/:id as a soft delete. Repeating
// the call on an already-deleted listing still answers 200.
func (h *MessGroupHandler) Delete(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mess group id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Groups.SoftDelete(ctx, id, callerID); err != nil {
		switch err {
		case repository.ErrMessGroupNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mess group not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not own this mess group"})
		}
		return serverError(c, h.Cfg.Dev(), "failed to delete mess group", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "mess group deleted"})
}

type rateReq struct {
	Rating *int `json:"rating"`
}

// Rate serves PATCH /v1/mess-groups/:id/rating. The submitted integer
// replaces the stored rating outright; whoever rates last wins.
func (h *MessGroupHandler) Rate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mess group id"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil || req.Rating == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating is required"})
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Groups.SetRating(ctx, id, *req.Rating)
	if err != nil {
		if err == repository.ErrMessGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mess group not found"})
		}
		return serverError(c, h.Cfg.Dev(), "failed to update rating", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messGroup": d})
}
