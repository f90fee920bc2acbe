package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/service"
)

type MessageHandler struct {
	svc service.MessageService
}

func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type SendMessageRequest struct {
	ReceiverID uint64 `json:"receiverId"`
	ListingID  uint64 `json:"listingId"`
	Body       string `json:"body"`
}

// UnreadResponse is the polling payload: total for the badge plus
// per-listing counts for the thread list.
type UnreadResponse struct {
	Count    int64            `json:"count"`
	Listings map[uint64]int64 `json:"listings"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	uid, _ := c.Get("uid").(uint64)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.Send(c.Request().Context(), uid, req.ReceiverID, req.ListingID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to send message"))
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) Unread(c echo.Context) error {
	uid, _ := c.Get("uid").(uint64)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	total, err := h.svc.UnreadTotal(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to count unread"))
	}
	byListing, err := h.svc.UnreadByListing(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to count unread"))
	}
	if byListing == nil {
		byListing = map[uint64]int64{}
	}
	return c.JSON(http.StatusOK, UnreadResponse{Count: total, Listings: byListing})
}

func (h *MessageHandler) MarkAllRead(c echo.Context) error {
	uid, _ := c.Get("uid").(uint64)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	if err := h.svc.MarkAllRead(c.Request().Context(), uid); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}
	return c.JSON(http.StatusOK, statusOK())
}

func toMessageList(msgs []model.Message) []model.Message {
	if msgs == nil {
		return []model.Message{}
	}
	return msgs
}
