package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/config"
	"github.com/messbari/mess-booking/internal/model"
	"github.com/messbari/mess-booking/internal/payment"
	"github.com/messbari/mess-booking/internal/queue"
	"github.com/messbari/mess-booking/internal/repository"
)

// BookingHandler drives the payment-initiation flow: one database
// transaction that locks the listing, checks duplicates and capacity,
// and writes the order plus its pending transaction, followed by a
// checkout-session call to the payment provider. Publish, when set,
// announces successful initiations on the message queue; a nil value
// skips publishing.
type BookingHandler struct {
	Cfg          config.Config
	Groups       *repository.MessGroupRepo
	Orders       *repository.OrderRepo
	Transactions *repository.TransactionRepo
	Checkout     payment.CheckoutCreator
	Publish      func(ctx context.Context, ev queue.BookingInitiatedEvent) error
}

type initiateReq struct {
	UserID      uint64 `json:"user_id" validate:"required"`
	MessGroupID uint64 `json:"mess_group_id" validate:"required"`
	RoomType    string `json:"room_type" validate:"required"`
}

// seatAvailability is the capacity snapshot returned when a booking is
// rejected for lack of seats, so the client can explain what is left.
type seatAvailability struct {
	RoomType  string `json:"room_type"`
	Total     uint32 `json:"total"`
	Booked    uint32 `json:"booked"`
	Available uint32 `json:"available"`
}

// Initiate serves POST /v1/bookings/initiate.
//
// All state checks and inserts happen inside one transaction holding a
// row lock on the listing, so two concurrent requests for the last seat
// cannot both succeed. The checkout session is created only after the
// commit; if the provider then fails, the order is cancelled and the
// transaction marked failed so the seat is released.
func (h *BookingHandler) Initiate(c echo.Context) error {
	var req initiateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id, mess_group_id and room_type are required"})
	}
	if !model.ValidRoomType(req.RoomType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type must be 'single' or 'double'"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Groups.DB().BeginTx(ctx, nil)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "could not start booking", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	mg, err := h.Groups.GetForBookingTx(ctx, tx, req.MessGroupID)
	if err != nil {
		if err == repository.ErrMessGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mess group not found"})
		}
		return serverError(c, h.Cfg.Dev(), "could not load mess group", err)
	}

	dup, err := h.Orders.HasActiveTx(ctx, tx, req.UserID, req.MessGroupID)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "duplicate check failed", err)
	}
	if dup {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "you already have an active booking for this mess",
		})
	}

	total := mg.SingleSeats
	price := mg.SinglePrice
	if req.RoomType == model.RoomDouble {
		total = mg.DoubleSeats
		price = mg.DoublePrice
	}
	booked, err := h.Orders.CountActiveTx(ctx, tx, req.MessGroupID, req.RoomType)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "capacity check failed", err)
	}
	if booked >= total {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "no seats available for the requested room type",
			"availableSeats": seatAvailability{
				RoomType:  req.RoomType,
				Total:     total,
				Booked:    booked,
				Available: 0,
			},
		})
	}

	order := model.Order{
		UserID:      req.UserID,
		MessGroupID: req.MessGroupID,
		RoomType:    req.RoomType,
		Status:      model.OrderActive,
	}
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return serverError(c, h.Cfg.Dev(), "could not create order", err)
	}
	txn := model.Transaction{
		OrderID:  order.ID,
		Amount:   price,
		Currency: h.Cfg.Currency,
		Status:   model.TxPending,
	}
	if err := h.Transactions.CreateTx(ctx, tx, &txn); err != nil {
		return serverError(c, h.Cfg.Dev(), "could not create transaction", err)
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, h.Cfg.Dev(), "could not commit booking", err)
	}
	committed = true

	messURL := fmt.Sprintf("%s/mess/%d", h.Cfg.BaseURL, req.MessGroupID)
	session, err := h.Checkout.CreateSession(ctx, payment.CheckoutParams{
		Amount:      price,
		Currency:    h.Cfg.Currency,
		ProductName: fmt.Sprintf("%s - %s room", mg.Name, req.RoomType),
		SuccessURL:  fmt.Sprintf("%s?success=1&order_id=%d", messURL, order.ID),
		CancelURL:   fmt.Sprintf("%s?canceled=1&order_id=%d", messURL, order.ID),
		Metadata: map[string]string{
			"order_id":       strconv.FormatUint(order.ID, 10),
			"transaction_id": strconv.FormatUint(txn.ID, 10),
			"user_id":        strconv.FormatUint(req.UserID, 10),
			"mess_group_id":  strconv.FormatUint(req.MessGroupID, 10),
			"room_type":      req.RoomType,
		},
	})
	if err != nil {
		// Compensation: the seat was reserved at commit time, so a
		// provider failure has to release it again. The request context
		// is typically already expired when the provider timed out, so
		// the updates run on a fresh context; a seat must not stay
		// consumed because the deadline passed.
		compCtx, compCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer compCancel()
		if cErr := h.Orders.Cancel(compCtx, order.ID); cErr != nil {
			c.Logger().Errorf("cancel order %d after checkout failure: %v", order.ID, cErr)
		}
		if mErr := h.Transactions.MarkFailed(compCtx, txn.ID); mErr != nil {
			c.Logger().Errorf("mark transaction %d failed after checkout failure: %v", txn.ID, mErr)
		}
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "payment provider unavailable, booking was not completed",
		})
	}

	if err := h.Transactions.AttachSession(ctx, txn.ID, session.ID); err != nil {
		c.Logger().Errorf("attach session %s to transaction %d: %v", session.ID, txn.ID, err)
	}
	if h.Publish != nil {
		ev := queue.BookingInitiatedEvent{
			OrderID:       order.ID,
			TransactionID: txn.ID,
			UserID:        req.UserID,
			MessGroupID:   req.MessGroupID,
			MessName:      mg.Name,
			RoomType:      req.RoomType,
			Amount:        price,
			Currency:      h.Cfg.Currency,
			SessionID:     session.ID,
			InitiatedAt:   time.Now().UTC(),
		}
		if err := h.Publish(ctx, ev); err != nil {
			c.Logger().Errorf("publish booking event for order %d: %v", order.ID, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"url":            session.URL,
		"order_id":       order.ID,
		"transaction_id": txn.ID,
	})
}

// History serves GET /v1/bookings/history?user_id=N with every order
// the user has placed, newest first.
func (h *BookingHandler) History(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id query parameter is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Orders.ListByUser(ctx, userID)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "failed to load booking history", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"orders": items,
		"count":  len(items),
	})
}
