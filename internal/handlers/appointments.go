package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/services"
	"clinic-app-server/internal/utils"
)

// AppointmentHandler exposes the appointment lifecycle over HTTP.
type AppointmentHandler struct {
	Appointments *services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments}
}

// currentUser reconstructs the authenticated user from the JWT claims set by
// AuthMiddleware. It carries exactly the fields the services consult.
func currentUser(c *gin.Context) (*models.User, bool) {
	id, okID := middleware.GetUserIDFromContext(c)
	email, okEmail := middleware.GetUserEmailFromContext(c)
	role, okRole := middleware.GetUserRoleFromContext(c)
	if !okID || !okEmail || !okRole {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	return &models.User{
		BaseModel: models.BaseModel{ID: id},
		Email:     email,
		Role:      role,
	}, true
}

// respondServiceError maps service and validation errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrSlotTaken),
		errors.Is(err, scheduling.ErrPatientAlreadyBooked),
		errors.Is(err, services.ErrDuplicateDoctor),
		errors.Is(err, services.ErrDuplicateLeave):
		utils.Conflict(c, err.Error())
	case errors.Is(err, scheduling.ErrNotOwner):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, scheduling.ErrNotBooked),
		errors.Is(err, scheduling.ErrRescheduleLimit),
		errors.Is(err, services.ErrPastAppointment):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDoctorNotFound),
		errors.Is(err, services.ErrPatientNotFound),
		errors.Is(err, services.ErrAppointmentNotFound):
		utils.NotFound(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// BookAppointmentRequest represents the request body for booking.
type BookAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	AppointmentTime string `json:"appointmentTime" binding:"required"`
}

// Book handles POST /appointments.
func (h *AppointmentHandler) Book(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := utils.ParseDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	at, err := scheduling.ParseTimeOfDay(req.AppointmentTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	appt, err := h.Appointments.Book(c.Request.Context(), user.Email, req.DoctorID, date, at)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Created(c, "Appointment booked successfully", appt)
}

// Cancel handles PATCH /appointments/:id/cancel.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	appt, err := h.Appointments.Cancel(c.Request.Context(), c.Param("id"), user.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", appt)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	AppointmentTime string `json:"appointmentTime" binding:"required"`
}

// Reschedule handles PATCH /appointments/:id/reschedule.
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := utils.ParseDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	at, err := scheduling.ParseTimeOfDay(req.AppointmentTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	appt, err := h.Appointments.Reschedule(c.Request.Context(), c.Param("id"), user.Email, date, at)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointment rescheduled successfully", appt)
}

// List handles GET /appointments: a patient's own, a doctor's calendar, or
// everything for an admin.
func (h *AppointmentHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	appts, err := h.Appointments.ListFor(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

// Get handles GET /appointments/:id.
func (h *AppointmentHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	appt, err := h.Appointments.Get(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointment fetched successfully", appt)
}
