package handlers

import (
	"net/http"

	userRepo "chairhop/database/repository/user"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
)

// UserRepo is wired in main.
var UserRepo userRepo.UserRepository

// RegisterFCMToken stores the caller's push token.
func RegisterFCMToken(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := UserRepo.SetFCMToken(c.Request.Context(), c.GetString("userID"), input.Token); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
