package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skydesk/internal/booking"
	"skydesk/internal/documents"
	"skydesk/internal/models"
)

// PurchaseTicket - POST /api/bookings
func (h *Handlers) PurchaseTicket(c *gin.Context) {
	var req models.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.bookings.Purchase(c.Request.Context(), &req)
	if err != nil {
		respondClassified(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// CancelTicket - PATCH /api/bookings/cancel
func (h *Handlers) CancelTicket(c *gin.Context) {
	var req models.CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.bookings.Cancel(c.Request.Context(), req.TicketID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			respondClassified(c, err, nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GetProfile - GET /api/profile/:passengerID
func (h *Handlers) GetProfile(c *gin.Context) {
	passengerID, err := strconv.ParseInt(c.Param("passengerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passenger id"})
		return
	}

	profile, err := h.bookings.Profile(c.Request.Context(), passengerID)
	if err != nil {
		if errors.Is(err, booking.ErrPassengerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondClassified(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetTicketDocument - GET /api/tickets/:id/document
// Возвращает полностью разрешенные данные билета для генератора документов
func (h *Handlers) GetTicketDocument(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	doc, err := h.documents.ResolveTicket(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondClassified(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, doc)
}
