package handlers

import (
	"errors"
	"net/http"

	reviewRepo "chairhop/database/repository/review"
	"chairhop/services/booking"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
)

// ReviewSvc is wired in main. Reviews ride on the booking engine, so this is
// the concrete service rather than the lifecycle interface.
var ReviewSvc *booking.DefaultBookingService

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// CreateReview attaches a review to a completed appointment the caller sat.
func CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	review, err := ReviewSvc.LeaveReview(c.Request.Context(), actorFrom(c), c.Param("id"), req.Rating, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GetAppointmentReview returns the review on one appointment.
func GetAppointmentReview(c *gin.Context) {
	review, err := ReviewSvc.AppointmentReview(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, reviewRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "no review for this appointment", "")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// ListStylistReviews returns a stylist's reviews with the average rating.
func ListStylistReviews(c *gin.Context) {
	stylistID := c.Query("stylist_id")
	if stylistID == "" {
		utils.JSONError(c, http.StatusBadRequest, "stylist_id required", "")
		return
	}

	summary, err := ReviewSvc.StylistReviews(c.Request.Context(), stylistID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
