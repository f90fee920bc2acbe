package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/service"
)

type ConversationHandler struct {
	svc      service.ConversationService
	messages service.MessageService
}

func NewConversationHandler(svc service.ConversationService, messages service.MessageService) *ConversationHandler {
	return &ConversationHandler{svc: svc, messages: messages}
}

type ConversationViewResponse struct {
	ListingID       uint64          `json:"listingId"`
	CounterpartID   uint64          `json:"counterpartId"`
	CounterpartName string          `json:"counterpartName,omitempty"`
	Messages        []model.Message `json:"messages"`
}

type ThreadListResponse struct {
	ListingID uint64                `json:"listingId"`
	Owner     bool                  `json:"owner"`
	Threads   []service.ThreadEntry `json:"threads"`
}

func (h *ConversationHandler) List(c echo.Context) error {
	uid, _ := c.Get("uid").(uint64)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convs, err := h.svc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	if convs == nil {
		convs = []service.ConversationSummary{}
	}
	return c.JSON(http.StatusOK, convs)
}

// Fetch returns the ordered messages of one (listing, counterpart) thread.
// `start=true` seeds a brand-new thread with the greeting first. Opening a
// thread marks the counterpart's messages read, same as the original
// messaging page.
func (h *ConversationHandler) Fetch(c echo.Context) error {
	uid, _ := c.Get("uid").(uint64)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	with, err := strconv.ParseUint(c.QueryParam("with"), 10, 64)
	if err != nil || with == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid counterpart id"))
	}

	ctx := c.Request().Context()
	if c.QueryParam("start") == "true" {
		if err := h.svc.EnsureStarted(ctx, uid, with, listingID); err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
			}
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to start conversation"))
		}
	}

	msgs, err := h.messages.Conversation(ctx, uid, with, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch messages"))
	}
	if err := h.messages.MarkRead(ctx, with, uid, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}

	name, err := h.svc.CounterpartName(ctx, uid, listingID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to resolve counterpart"))
	}
	return c.JSON(http.StatusOK, ConversationViewResponse{
		ListingID:       listingID,
		CounterpartID:   with,
		CounterpartName: name,
		Messages:        toMessageList(msgs),
	})
}

func (h *ConversationHandler) MarkRead(c echo.Context) error {
	uid, _ := c.Get("uid").(uint64)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	with, err := strconv.ParseUint(c.QueryParam("with"), 10, 64)
	if err != nil || with == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid counterpart id"))
	}
	if err := h.messages.MarkRead(c.Request().Context(), with, uid, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}
	return c.JSON(http.StatusOK, statusOK())
}

// Threads lists the people on the other side of a listing: all inquirers
// for the owner, just the owner for everyone else.
func (h *ConversationHandler) Threads(c echo.Context) error {
	uid, _ := c.Get("uid").(uint64)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}

	ctx := c.Request().Context()
	threads, err := h.svc.OwnerThreads(ctx, listingID, uid)
	if err == nil {
		return c.JSON(http.StatusOK, ThreadListResponse{ListingID: listingID, Owner: true, Threads: threads})
	}
	if !errors.Is(err, service.ErrForbidden) {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch threads"))
	}

	entry, err := h.svc.InquirerThread(ctx, listingID, uid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch threads"))
	}
	return c.JSON(http.StatusOK, ThreadListResponse{ListingID: listingID, Owner: false, Threads: []service.ThreadEntry{*entry}})
}
