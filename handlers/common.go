package handlers

import (
	"net/http"

	"chairhop/models"
	"chairhop/services/assistant"
	"chairhop/services/booking"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the acting identity from what the auth middleware stored.
func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:   c.GetString("userID"),
		Role: models.Role(c.GetString("role")),
	}
}

// respondServiceError maps typed service errors to HTTP statuses. Anything
// untyped is a 500.
func respondServiceError(c *gin.Context, err error) {
	if be, ok := err.(*booking.Error); ok {
		switch be.Code {
		case "not_available", "already_occupied", "already_reviewed":
			utils.JSONError(c, http.StatusConflict, be.Message, be.Code)
		case "not_owner", "not_occupant":
			utils.JSONError(c, http.StatusForbidden, be.Message, be.Code)
		case "too_early_to_complete", "invalid_add_on", "not_reviewable", "invalid_review":
			utils.JSONError(c, http.StatusUnprocessableEntity, be.Message, be.Code)
		default:
			utils.JSONError(c, http.StatusInternalServerError, be.Message, be.Code)
		}
		return
	}
	if ae, ok := err.(*assistant.AssistantError); ok {
		switch ae.Code {
		case "selection_not_in_shortlist", "nothing_locked":
			utils.JSONError(c, http.StatusUnprocessableEntity, ae.Message, ae.Code)
		case "not_conversation_owner":
			utils.JSONError(c, http.StatusForbidden, ae.Message, ae.Code)
		default:
			utils.JSONError(c, http.StatusInternalServerError, ae.Message, ae.Code)
		}
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "something went wrong", err.Error())
}
