package handlers

import (
	"errors"
	"net/http"

	appointmentRepo "chairhop/database/repository/appointment"
	serviceRepo "chairhop/database/repository/service"
	"chairhop/models"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
)

// Wired in main.
var (
	ServiceRepo     serviceRepo.ServiceRepository
	AppointmentRepo appointmentRepo.AppointmentRepository
)

// CreateService adds a priced service to the stylist's catalog.
func CreateService(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required"`
		PriceCents int    `json:"price_cents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.PriceCents <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "price_cents must be positive")
		return
	}

	svc := &models.Service{
		StylistID:  c.GetString("userID"),
		Name:       input.Name,
		PriceCents: input.PriceCents,
		Active:     true,
	}
	if err := ServiceRepo.Create(c.Request.Context(), svc); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// ListMyServices returns the stylist's catalog, including inactive entries.
func ListMyServices(c *gin.Context) {
	services, err := ServiceRepo.ListByStylist(c.Request.Context(), c.GetString("userID"), false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// ListStylistServices returns another stylist's active catalog, for customers
// picking add-ons.
func ListStylistServices(c *gin.Context) {
	services, err := ServiceRepo.ListByStylist(c.Request.Context(), c.Param("stylistID"), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// DeactivateService retires a catalog entry. Existing appointment add-ons
// keep referencing it for historical pricing.
func DeactivateService(c *gin.Context) {
	err := ServiceRepo.Deactivate(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, serviceRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "service not found", "")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteService removes a catalog entry outright. Refused while any
// appointment add-on still references it.
func DeleteService(c *gin.Context) {
	id := c.Param("id")
	refCount, err := AppointmentRepo.CountAddOnRefs(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	err = ServiceRepo.Delete(c.Request.Context(), id, c.GetString("userID"), refCount)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrStillReferenced) {
			utils.JSONError(c, http.StatusConflict, "service is still referenced by appointments", "deactivate it instead")
			return
		}
		if errors.Is(err, serviceRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "service not found", "")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
