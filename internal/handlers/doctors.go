package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/services"
	"clinic-app-server/internal/utils"
)

// DoctorHandler exposes the doctor registry and schedule management.
type DoctorHandler struct {
	Doctors      *services.DoctorService
	Availability *services.AvailabilityService
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(doctors *services.DoctorService, availability *services.AvailabilityService) *DoctorHandler {
	return &DoctorHandler{Doctors: doctors, Availability: availability}
}

// RegisterDoctorRequest represents the request body for doctor registration.
type RegisterDoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Experience     int    `json:"experience" binding:"min=0"`
	UserID         string `json:"userId"`
}

// Register handles POST /doctors (admin only).
func (h *DoctorHandler) Register(c *gin.Context) {
	var req RegisterDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor, err := h.Doctors.Register(c.Request.Context(), models.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		UserID:         req.UserID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Created(c, "Doctor registered successfully", doctor)
}

// Get handles GET /doctors/:id.
func (h *DoctorHandler) Get(c *gin.Context) {
	doctor, err := h.Doctors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

// List handles GET /doctors with an optional ?specialization= filter.
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.Doctors.List(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// SetAvailabilityRequest represents the request body for a weekly rule.
type SetAvailabilityRequest struct {
	DayOfWeek    string `json:"dayOfWeek" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    string `json:"startTime" binding:"required"`
	EndTime      string `json:"endTime" binding:"required"`
	SlotDuration int    `json:"slotDuration" binding:"required,min=15"`
}

// SetAvailability handles POST /doctors/:id/availability.
func (h *DoctorHandler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	start, err := scheduling.ParseTimeOfDay(req.StartTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	end, err := scheduling.ParseTimeOfDay(req.EndTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if end <= start {
		utils.BadRequest(c, "endTime must be after startTime")
		return
	}

	rule, err := h.Availability.SetRule(c.Request.Context(), c.Param("id"), models.WeeklyAvailability{
		DayOfWeek:    models.DayOfWeek(req.DayOfWeek),
		StartTime:    start.String(),
		EndTime:      end.String(),
		SlotDuration: req.SlotDuration,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Created(c, "Availability rule saved", rule)
}

// GetAvailability handles GET /doctors/:id/availability.
func (h *DoctorHandler) GetAvailability(c *gin.Context) {
	rules, err := h.Availability.Rules(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Availability fetched successfully", rules)
}

// AddLeaveRequest represents the request body for a leave day.
type AddLeaveRequest struct {
	LeaveDate string `json:"leaveDate" binding:"required"`
	LeaveType string `json:"leaveType" binding:"required,oneof=SICK VACATION CONFERENCE EMERGENCY OTHER"`
	Reason    string `json:"reason"`
}

// AddLeave handles POST /doctors/:id/leaves.
func (h *DoctorHandler) AddLeave(c *gin.Context) {
	var req AddLeaveRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := utils.ParseDate(req.LeaveDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	leave, err := h.Availability.AddLeave(c.Request.Context(), c.Param("id"), models.LeaveDay{
		Date:      date,
		LeaveType: models.LeaveType(req.LeaveType),
		Reason:    req.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Created(c, "Leave day recorded", leave)
}

// GetLeaves handles GET /doctors/:id/leaves.
func (h *DoctorHandler) GetLeaves(c *gin.Context) {
	leaves, err := h.Availability.Leaves(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Leaves fetched successfully", leaves)
}

// AvailableSlots handles GET /doctors/:id/available-slots?date=YYYY-MM-DD.
func (h *DoctorHandler) AvailableSlots(c *gin.Context) {
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	slots, err := h.Availability.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Slots fetched successfully", slots)
}
