package controllers

import (
	"net/http"

	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ScheduleController struct {
	ScheduleUsecase contracts.ScheduleUsecase
	SlotUsecase     contracts.SlotUsecase
	Validator       *validator.Validate
	Log             *zap.Logger
}

func NewScheduleController(
	scheduleUsecase contracts.ScheduleUsecase,
	slotUsecase contracts.SlotUsecase,
	validate *validator.Validate,
	log *zap.Logger,
) *ScheduleController {
	return &ScheduleController{
		ScheduleUsecase: scheduleUsecase,
		SlotUsecase:     slotUsecase,
		Validator:       validate,
		Log:             log,
	}
}

func (c *ScheduleController) Create(w http.ResponseWriter, r *http.Request) {
	var request requests.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := c.Validator.Struct(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := c.ScheduleUsecase.Create(r.Context(), &request)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessCreateSchedule, response)
}

func (c *ScheduleController) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if scheduleID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "scheduleID"))
		return
	}

	var request requests.GenerateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := c.Validator.Struct(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	breaks := make([]contracts.BreakWindow, 0, len(request.Breaks))
	for _, b := range request.Breaks {
		breaks = append(breaks, contracts.BreakWindow{Start: b.Start, End: b.End})
	}
	template := contracts.SlotTemplate{
		StartDate:           request.StartDate,
		EndDate:             request.EndDate,
		DaysOfWeek:          request.DaysOfWeek,
		StartTime:           request.StartTime,
		EndTime:             request.EndTime,
		SlotDurationMinutes: request.SlotDurationMinutes,
		Breaks:              breaks,
	}

	outcome, err := c.SlotUsecase.GenerateSlots(r.Context(), scheduleID, template)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessGenerateSlots, buildGenerateSlotsResponse(outcome))
}

func (c *ScheduleController) PurgeSlots(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if scheduleID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "scheduleID"))
		return
	}

	response, err := c.ScheduleUsecase.PurgeFutureFreeSlots(r.Context(), scheduleID)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessPurgeSlots, response)
}

func (c *ScheduleController) Deactivate(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if scheduleID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "scheduleID"))
		return
	}

	response, err := c.ScheduleUsecase.Deactivate(r.Context(), scheduleID)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessDeactivateSchedule, response)
}

func (c *ScheduleController) Delete(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if scheduleID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "scheduleID"))
		return
	}

	if err := c.ScheduleUsecase.Delete(r.Context(), scheduleID); err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessDeleteSchedule, nil)
}
