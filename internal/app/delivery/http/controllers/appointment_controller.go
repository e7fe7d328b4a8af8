package controllers

import (
	"context"
	"net/http"

	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AppointmentController struct {
	AppointmentUsecase contracts.AppointmentUsecase
	Validator          *validator.Validate
	Log                *zap.Logger
}

func NewAppointmentController(
	appointmentUsecase contracts.AppointmentUsecase,
	validate *validator.Validate,
	log *zap.Logger,
) *AppointmentController {
	return &AppointmentController{
		AppointmentUsecase: appointmentUsecase,
		Validator:          validate,
		Log:                log,
	}
}

func (c *AppointmentController) Book(w http.ResponseWriter, r *http.Request) {
	var request requests.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := c.Validator.Struct(&request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	input := contracts.BookAppointmentInput{
		PatientID:       request.PatientID,
		ScheduleID:      request.ScheduleID,
		Match:           contracts.SlotMatch{SlotIDs: request.SlotIDs, Combined: len(request.SlotIDs) > 1},
		AppointmentType: request.AppointmentType,
		Reason:          request.Reason,
		Note:            request.Note,
	}
	response, err := c.AppointmentUsecase.Book(r.Context(), input)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessBookAppointment, response)
}

func (c *AppointmentController) Cancel(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "appointmentID"))
		return
	}

	var request requests.CancelAppointmentRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
	}

	response, err := c.AppointmentUsecase.Cancel(r.Context(), appointmentID, request.Reason)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessCancelAppointment, response)
}

func (c *AppointmentController) CheckIn(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.AppointmentUsecase.CheckIn)
}

func (c *AppointmentController) Fulfill(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.AppointmentUsecase.Fulfill)
}

func (c *AppointmentController) NoShow(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.AppointmentUsecase.NoShow)
}

func (c *AppointmentController) FindByID(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "appointmentID"))
		return
	}

	response, err := c.AppointmentUsecase.FindByID(r.Context(), appointmentID)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetAppointment, response)
}

func (c *AppointmentController) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, appointmentID string) (*responses.Appointment, error)) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrURLParamIDValidation(nil, "appointmentID"))
		return
	}

	response, err := apply(r.Context(), appointmentID)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessUpdateAppointment, response)
}
