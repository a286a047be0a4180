package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"chairhop/models"
	"chairhop/services/assistant"
	"chairhop/services/storage"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Wired in main.
var (
	AssistantSvc assistant.AssistantService
	StorageSvc   storage.StorageService
)

// AssistantMessage runs one turn of the booking conversation.
func AssistantMessage(c *gin.Context) {
	var req models.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := AssistantSvc.ProcessMessage(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListConversations returns the caller's conversations.
func ListConversations(c *gin.Context) {
	convs, err := AssistantSvc.ListConversations(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// ListConversationTurns returns the message history of one conversation.
func ListConversationTurns(c *gin.Context) {
	turns, err := AssistantSvc.ListTurns(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": turns})
}

// UploadChatPhoto accepts a multipart reference photo and returns its URL,
// for inclusion in a later assistant message.
func UploadChatPhoto(c *gin.Context) {
	if StorageSvc == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "photo uploads are not configured", "")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "photo file is required")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store upload", err.Error())
		return
	}
	defer os.Remove(tmpPath)

	url, err := StorageSvc.UploadChatPhoto(c.Request.Context(), tmpPath, c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to upload photo", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
