package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SlotController struct {
	SlotUsecase contracts.SlotUsecase
	Log         *zap.Logger
}

func NewSlotController(slotUsecase contracts.SlotUsecase, log *zap.Logger) *SlotController {
	return &SlotController{
		SlotUsecase: slotUsecase,
		Log:         log,
	}
}

// FindAvailability handles GET /schedules/{scheduleID}/availability?durationMinutes=30&from=RFC3339.
// 'from' defaults to now.
func (c *SlotController) FindAvailability(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if scheduleID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "scheduleID"))
		return
	}

	durationParam := r.URL.Query().Get("durationMinutes")
	requiredMinutes, err := strconv.Atoi(durationParam)
	if err != nil || requiredMinutes <= 0 {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInvalidTemplate(fmt.Errorf("durationMinutes must be a positive integer, got '%s'", durationParam)))
		return
	}

	from := time.Now()
	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		parsed, err := time.Parse(time.RFC3339, fromParam)
		if err != nil {
			utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseDate(err))
			return
		}
		from = parsed
	}

	matches, err := c.SlotUsecase.FindAvailability(r.Context(), scheduleID, from, requiredMinutes)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessFindAvailability, buildAvailabilityResponse(matches))
}
