package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/studio-scheduler/internal/usecase/catalog"
	ucCourse "github.com/BruksfildServices01/studio-scheduler/internal/usecase/course"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	createService     *ucCatalog.CreateService
	updateService     *ucCatalog.UpdateService
	deactivateService *ucCatalog.DeactivateService
	listServices      *ucCatalog.ListServices

	createSchedule *ucCatalog.CreateSchedule
	listSchedules  *ucCatalog.ListSchedules
	deleteSchedule *ucCatalog.DeleteSchedule

	generate *ucCourse.GenerateOccurrences
}

func NewServiceHandler(
	createService *ucCatalog.CreateService,
	updateService *ucCatalog.UpdateService,
	deactivateService *ucCatalog.DeactivateService,
	listServices *ucCatalog.ListServices,
	createSchedule *ucCatalog.CreateSchedule,
	listSchedules *ucCatalog.ListSchedules,
	deleteSchedule *ucCatalog.DeleteSchedule,
	generate *ucCourse.GenerateOccurrences,
) *ServiceHandler {
	return &ServiceHandler{
		createService:     createService,
		updateService:     updateService,
		deactivateService: deactivateService,
		listServices:      listServices,
		createSchedule:    createSchedule,
		listSchedules:     listSchedules,
		deleteSchedule:    deleteSchedule,
		generate:          generate,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	Type               string   `json:"type" binding:"required"`
	DurationMinutes    int      `json:"duration_minutes" binding:"required"`
	MaxCapacity        int      `json:"max_capacity" binding:"required"`
	PriceSingleCents   int64    `json:"price_single_cents"`
	PriceCourseCents   *int64   `json:"price_course_cents"`
	SoftLimitRatio     *float64 `json:"soft_limit_ratio"`
	HardLimitRatio     *float64 `json:"hard_limit_ratio"`
	MaxOverbookedRatio *float64 `json:"max_overbooked_ratio"`
}

type UpdateServiceRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	DurationMinutes    *int     `json:"duration_minutes"`
	MaxCapacity        *int     `json:"max_capacity"`
	PriceSingleCents   *int64   `json:"price_single_cents"`
	PriceCourseCents   *int64   `json:"price_course_cents"`
	ClearCoursePrice   bool     `json:"clear_course_price"`
	SoftLimitRatio     *float64 `json:"soft_limit_ratio"`
	HardLimitRatio     *float64 `json:"hard_limit_ratio"`
	MaxOverbookedRatio *float64 `json:"max_overbooked_ratio"`
	IsActive           *bool    `json:"is_active"`
}

type CreateScheduleRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	ValidFrom string `json:"valid_from" binding:"required"`
	ValidTo   string `json:"valid_to"`
}

type GenerateOccurrencesRequest struct {
	Weekdays   []int  `json:"weekdays"`
	StartTime  string `json:"start_time"`
	WeeksCount int    `json:"weeks_count"`
	StartDate  string `json:"start_date"`
	ScheduleID *uint  `json:"schedule_id"`
}

// ======================================================
// SERVICES
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	studioID := middleware.StudioID(c)

	services, err := h.listServices.Execute(c.Request.Context(), studioID, c.Query("active") == "true")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	studioID := middleware.StudioID(c)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc, err := h.createService.Execute(c.Request.Context(), ucCatalog.CreateServiceInput{
		StudioID:           studioID,
		UserID:             middleware.UserID(c),
		Name:               req.Name,
		Description:        req.Description,
		Type:               req.Type,
		DurationMinutes:    req.DurationMinutes,
		MaxCapacity:        req.MaxCapacity,
		PriceSingleCents:   req.PriceSingleCents,
		PriceCourseCents:   req.PriceCourseCents,
		SoftLimitRatio:     req.SoftLimitRatio,
		HardLimitRatio:     req.HardLimitRatio,
		MaxOverbookedRatio: req.MaxOverbookedRatio,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc, err := h.updateService.Execute(
		c.Request.Context(),
		middleware.StudioID(c),
		middleware.UserID(c),
		serviceID,
		domain.ServiceUpdate{
			Name:               req.Name,
			Description:        req.Description,
			DurationMinutes:    req.DurationMinutes,
			MaxCapacity:        req.MaxCapacity,
			PriceSingleCents:   req.PriceSingleCents,
			PriceCourseCents:   req.PriceCourseCents,
			ClearCoursePrice:   req.ClearCoursePrice,
			SoftLimitRatio:     req.SoftLimitRatio,
			HardLimitRatio:     req.HardLimitRatio,
			MaxOverbookedRatio: req.MaxOverbookedRatio,
			IsActive:           req.IsActive,
		},
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Deactivate(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.deactivateService.Execute(
		c.Request.Context(),
		middleware.StudioID(c),
		middleware.UserID(c),
		serviceID,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, svc)
}

// ======================================================
// SCHEDULES
// ======================================================

func (h *ServiceHandler) ListSchedules(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	schedules, err := h.listSchedules.Execute(c.Request.Context(), middleware.StudioID(c), serviceID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, schedules)
}

func (h *ServiceHandler) CreateSchedule(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	validFrom, err := time.Parse(dateLayout, req.ValidFrom)
	if err != nil {
		httperr.BadRequest(c, "invalid_valid_from", "valid_from must be YYYY-MM-DD")
		return
	}
	validTo, err := optionalDate(req.ValidTo)
	if err != nil {
		httperr.BadRequest(c, "invalid_valid_to", "valid_to must be YYYY-MM-DD")
		return
	}

	sched, err := h.createSchedule.Execute(c.Request.Context(), ucCatalog.CreateScheduleInput{
		StudioID:  middleware.StudioID(c),
		UserID:    middleware.UserID(c),
		ServiceID: serviceID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		ValidFrom: validFrom,
		ValidTo:   validTo,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, sched)
}

func (h *ServiceHandler) DeleteSchedule(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}
	scheduleID, ok := idParam(c, "scheduleId")
	if !ok {
		return
	}

	if err := h.deleteSchedule.Execute(
		c.Request.Context(),
		middleware.StudioID(c),
		middleware.UserID(c),
		serviceID,
		scheduleID,
	); err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// OCCURRENCES
// ======================================================

func (h *ServiceHandler) GenerateOccurrences(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req GenerateOccurrencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	startDate, err := optionalDate(req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_date", "start_date must be YYYY-MM-DD")
		return
	}

	slots, err := h.generate.Execute(c.Request.Context(), ucCourse.GenerateOccurrencesInput{
		StudioID:   middleware.StudioID(c),
		ServiceID:  serviceID,
		UserID:     middleware.UserID(c),
		Weekdays:   req.Weekdays,
		StartTime:  req.StartTime,
		WeeksCount: req.WeeksCount,
		StartDate:  startDate,
		ScheduleID: req.ScheduleID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"created":     len(slots),
		"occurrences": slots,
	})
}
