package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Store.ListDoctors(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list doctors", err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *Handler) AddDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		h.badRequest(c, err)
		return
	}
	doctor.ID = primitive.NilObjectID

	result, err := h.Store.InsertDoctor(c.Request.Context(), &doctor)
	if err != nil {
		h.internalError(c, "failed to add doctor", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	result, err := h.Store.DeleteDoctorByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.internalError(c, "failed to delete doctor", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
