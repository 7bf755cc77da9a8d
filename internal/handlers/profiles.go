package handlers

import (
	"errors"
	"net/http"

	"thermocycle/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusGenerated = "generated"

	errGenerateProfile = "failed to generate profile"
	errGetRun          = "failed to load run"
	errListRuns        = "failed to list runs"
	errAnnotateRun     = "failed to lay out annotations"
	errRunNotFound     = "run not found"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondNotFoundOr writes 404 for missing runs and defers everything else
// to logAndJSONError with a 500.
func (h *Handler) respondNotFoundOr(c *gin.Context, userMsg, logKey string, err error) {
	if errors.Is(err, service.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errRunNotFound})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err, "id", c.Param("id"))
}

// Request DTO for generating a profile. Rates arrive in °C/min, the unit
// operators enter on the bench sheet; times are hours, temperatures °C.
type generateRequest struct {
	Name string `json:"name"`

	InitialTempC  float64 `json:"initial_temp_c"`
	InitialTimeH  float64 `json:"initial_time_h"`
	RecoveryTempC float64 `json:"recovery_temp_c"`
	RecoveryTimeH float64 `json:"recovery_time_h"`

	HighTempC      float64 `json:"high_temp_c"`
	HighToleranceC float64 `json:"high_tolerance_c"`
	LowTempC       float64 `json:"low_temp_c"`
	LowToleranceC  float64 `json:"low_tolerance_c"`

	FirstHighTimeH  float64 `json:"first_high_time_h"`
	FirstLowTimeH   float64 `json:"first_low_time_h"`
	LastHighTimeH   float64 `json:"last_high_time_h"`
	LastLowTimeH    float64 `json:"last_low_time_h"`
	MiddleHighTimeH float64 `json:"middle_high_time_h"`
	MiddleLowTimeH  float64 `json:"middle_low_time_h"`

	HeatRateCPerMin float64 `json:"heat_rate_c_per_min" binding:"required,gt=0"`
	CoolRateCPerMin float64 `json:"cool_rate_c_per_min" binding:"required,gt=0"`

	Cycles int `json:"cycles" binding:"required,min=1"`
}

func (r generateRequest) params() service.GenerateParams {
	return service.GenerateParams{
		Name:           r.Name,
		InitialTemp:    r.InitialTempC,
		InitialTime:    r.InitialTimeH,
		RecoveryTemp:   r.RecoveryTempC,
		RecoveryTime:   r.RecoveryTimeH,
		HighTemp:       r.HighTempC,
		HighTolerance:  r.HighToleranceC,
		LowTemp:        r.LowTempC,
		LowTolerance:   r.LowToleranceC,
		FirstHighTime:  r.FirstHighTimeH,
		FirstLowTime:   r.FirstLowTimeH,
		LastHighTime:   r.LastHighTimeH,
		LastLowTime:    r.LastLowTimeH,
		MiddleHighTime: r.MiddleHighTimeH,
		MiddleLowTime:  r.MiddleLowTimeH,
		HeatRatePerMin: r.HeatRateCPerMin,
		CoolRatePerMin: r.CoolRateCPerMin,
		Cycles:         r.Cycles,
	}
}

// GenerateProfileRequest is an exported model for Swagger docs of the createProfile payload.
type GenerateProfileRequest struct {
	// Export name; unsafe filename characters are stripped.
	Name string `json:"name" example:"shock board A"`
	// Starting soak temperature in °C
	InitialTempC float64 `json:"initial_temp_c" example:"70"`
	// Starting soak duration in hours
	InitialTimeH float64 `json:"initial_time_h" example:"0.5"`
	// Final recovery temperature in °C
	RecoveryTempC float64 `json:"recovery_temp_c" example:"40"`
	// Final recovery hold in hours
	RecoveryTimeH float64 `json:"recovery_time_h" example:"0.5"`
	// Hot extreme in °C
	HighTempC float64 `json:"high_temp_c" example:"100"`
	// Reporting tolerance around the hot extreme in °C
	HighToleranceC float64 `json:"high_tolerance_c" example:"2"`
	// Cold extreme in °C
	LowTempC float64 `json:"low_temp_c" example:"-20"`
	// Reporting tolerance around the cold extreme in °C
	LowToleranceC float64 `json:"low_tolerance_c" example:"2"`
	// First-cycle hold at the hot extreme in hours
	FirstHighTimeH float64 `json:"first_high_time_h" example:"0.25"`
	// First-cycle hold at the cold extreme in hours
	FirstLowTimeH float64 `json:"first_low_time_h" example:"2"`
	// Last-cycle hold at the hot extreme in hours
	LastHighTimeH float64 `json:"last_high_time_h" example:"0.25"`
	// Last-cycle hold at the cold extreme in hours
	LastLowTimeH float64 `json:"last_low_time_h" example:"2"`
	// Middle-cycle hold at the hot extreme in hours
	MiddleHighTimeH float64 `json:"middle_high_time_h" example:"1"`
	// Middle-cycle hold at the cold extreme in hours
	MiddleLowTimeH float64 `json:"middle_low_time_h" example:"1"`
	// Heating rate in °C per minute (required, > 0)
	HeatRateCPerMin float64 `json:"heat_rate_c_per_min" example:"3"`
	// Cooling rate in °C per minute (required, > 0)
	CoolRateCPerMin float64 `json:"cool_rate_c_per_min" example:"4"`
	// Number of cycles (required, >= 1)
	Cycles int `json:"cycles" example:"3"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Generate a profile
// @Description  Simulates the thermal schedule, stores the run, and returns it
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        body  body   GenerateProfileRequest  true  "Cycle parameters"
// @Success      200   {object}  map[string]interface{}  "status, run"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/profiles [post]
// @Security     BearerAuth
func (h *Handler) createProfile(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	run, err := h.services.Profiles.Generate(ctx, req.params())
	if err != nil {
		if service.IsInvalidConfig(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGenerateProfile, "profile_generate_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusGenerated, "run": run})
}

// @Summary      Get a stored run
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/profiles/{id} [get]
// @Security     BearerAuth
func (h *Handler) getProfile(c *gin.Context) {
	ctx := c.Request.Context()
	run, err := h.services.Profiles.Get(ctx, c.Param("id"))
	if err != nil {
		h.respondNotFoundOr(c, errGetRun, "run_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      Get annotation layout for a run
// @Description  Returns the per-key-point label placements used on the chart
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  map[string]interface{}  "count, annotations"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/profiles/{id}/annotations [get]
// @Security     BearerAuth
func (h *Handler) getAnnotations(c *gin.Context) {
	ctx := c.Request.Context()
	placements, err := h.services.Profiles.Annotations(ctx, c.Param("id"))
	if err != nil {
		h.respondNotFoundOr(c, errAnnotateRun, "run_annotate_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(placements),
		"annotations": placements,
	})
}
