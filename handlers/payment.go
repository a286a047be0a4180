package handlers

import (
	"net/http"

	"chairhop/services/booking"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
)

// PaymentSvc is wired in main. Payment endpoints live on the concrete
// booking service; they are not part of the lifecycle interface.
var PaymentSvc *booking.DefaultBookingService

// CreatePaymentIntent opens a Stripe payment intent for a booked appointment.
func CreatePaymentIntent(c *gin.Context) {
	result, err := PaymentSvc.CreatePaymentIntent(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmPayment records the outcome of a charge. The tag is an annotation
// only; it never changes the appointment's lifecycle state.
func ConfirmPayment(c *gin.Context) {
	var input struct {
		Outcome string `json:"outcome" binding:"required"` // "paid" or "refunded"
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	var err error
	switch input.Outcome {
	case "paid":
		err = PaymentSvc.MarkPaid(c.Request.Context(), c.Param("id"))
	case "refunded":
		err = PaymentSvc.MarkRefunded(c.Request.Context(), c.Param("id"))
	default:
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "outcome must be paid or refunded")
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
