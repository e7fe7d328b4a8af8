package main

import (
	"context"
	"log"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/drivers/messaging"
	coreAppointments "medibook-service/internal/app/services/core/appointments"
	coreSchedules "medibook-service/internal/app/services/core/schedules"
	coreSlot "medibook-service/internal/app/services/core/slot"
	"medibook-service/internal/app/services/fhir/appointments"
	"medibook-service/internal/app/services/fhir/patients"
	"medibook-service/internal/app/services/fhir/practitioners"
	"medibook-service/internal/app/services/fhir/schedules"
	"medibook-service/internal/app/services/fhir/slots"
	"medibook-service/internal/app/services/shared/events"
	"medibook-service/internal/app/services/shared/locker"
	"medibook-service/internal/app/services/shared/redis"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(bootstrap, location)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error while closing application resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, location *time.Location) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Messaging
	eventPublisher := events.NewEventPublisher(bootstrap.RabbitMQ, bootstrap.InternalConfig.App.AppointmentEventQueue, bootstrap.Logger)

	// FHIR clients
	fhirBaseUrl := bootstrap.InternalConfig.FHIR.BaseUrl
	slotFhirClient := slots.NewSlotFhirClient(fhirBaseUrl)
	scheduleFhirClient := schedules.NewScheduleFhirClient(fhirBaseUrl)
	appointmentFhirClient := appointments.NewAppointmentFhirClient(fhirBaseUrl)
	patientFhirClient := patients.NewPatientFhirClient(fhirBaseUrl)
	practitionerFhirClient := practitioners.NewPractitionerFhirClient(fhirBaseUrl)

	// Usecases
	slotUsecase := coreSlot.NewSlotUsecase(
		slotFhirClient,
		scheduleFhirClient,
		redisRepository,
		bootstrap.InternalConfig,
		location,
		bootstrap.Logger,
	)
	scheduleUsecase := coreSchedules.NewScheduleUsecase(
		scheduleFhirClient,
		slotFhirClient,
		redisRepository,
		bootstrap.Logger,
	)
	appointmentUsecase := coreAppointments.NewAppointmentUsecase(
		appointmentFhirClient,
		slotFhirClient,
		scheduleFhirClient,
		patientFhirClient,
		practitionerFhirClient,
		lockerService,
		eventPublisher,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Slot worker
	slotWorker := coreSlot.NewWorker(
		slotUsecase,
		scheduleFhirClient,
		redisRepository,
		lockerService,
		bootstrap.InternalConfig,
		location,
		bootstrap.Logger,
	)
	stopWorker, err := slotWorker.Start()
	if err != nil {
		log.Fatalf("Error starting slot worker: %v", err)
	}
	bootstrap.SlotWorkerStop = stopWorker

	// Delivery
	validate := validator.New()
	m := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	scheduleController := controllers.NewScheduleController(scheduleUsecase, slotUsecase, validate, bootstrap.Logger)
	slotController := controllers.NewSlotController(slotUsecase, bootstrap.Logger)
	appointmentController := controllers.NewAppointmentController(appointmentUsecase, validate, bootstrap.Logger)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, m, scheduleController, slotController, appointmentController)
}
