package handlers

import (
	"net/http"
	"time"

	appointmentRepo "chairhop/database/repository/appointment"
	"chairhop/models"
	"chairhop/services/booking"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
)

// BookingSvc is wired in main.
var BookingSvc booking.BookingService

// CreateSlot opens a new availability slot for the calling stylist.
func CreateSlot(c *gin.Context) {
	var input booking.CreateSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	apt, err := BookingSvc.CreateSlot(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

// ListOpenSlots returns open slots, optionally filtered by location, stylist
// or day.
func ListOpenSlots(c *gin.Context) {
	filter := appointmentRepo.OpenSlotFilter{
		Location:  c.Query("location"),
		StylistID: c.Query("stylist_id"),
	}
	if day := c.Query("day"); day != "" {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid day", "expected YYYY-MM-DD")
			return
		}
		filter.Day = &t
	}

	slots, err := BookingSvc.ListOpenSlots(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": slots})
}

// GetSlot returns one appointment.
func GetSlot(c *gin.Context) {
	apt, err := BookingSvc.GetSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		if booking.IsCode(err, "not_available") {
			utils.JSONError(c, http.StatusNotFound, "appointment not found", "")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// ListMine returns the caller's appointments, as stylist or customer.
func ListMine(c *gin.Context) {
	var status *models.AppointmentStatus
	switch c.Query("status") {
	case "pending":
		s := models.StatusPending
		status = &s
	case "booked":
		s := models.StatusBooked
		status = &s
	case "completed":
		s := models.StatusCompleted
		status = &s
	}

	slots, err := BookingSvc.ListMine(c.Request.Context(), actorFrom(c), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": slots})
}

// BookSlot claims an open slot for the calling customer.
func BookSlot(c *gin.Context) {
	var req booking.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	apt, err := BookingSvc.Book(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// AcceptSlot confirms a requested booking on the stylist's slot.
func AcceptSlot(c *gin.Context) {
	apt, err := BookingSvc.Accept(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// CancelSlot releases the slot back to open.
func CancelSlot(c *gin.Context) {
	apt, err := BookingSvc.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// CompleteSlot marks the appointment as done.
func CompleteSlot(c *gin.Context) {
	apt, err := BookingSvc.Complete(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// DeleteSlot removes a never-occupied slot.
func DeleteSlot(c *gin.Context) {
	if err := BookingSvc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// QuoteSlot returns the derived price breakdown for an appointment.
func QuoteSlot(c *gin.Context) {
	quote, err := BookingSvc.Quote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// AddOnMenu returns the legacy add-on descriptors offered for the slot's salon.
func AddOnMenu(c *gin.Context) {
	apt, err := BookingSvc.GetSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"add_ons": BookingSvc.RelevantAddOns(apt)})
}
