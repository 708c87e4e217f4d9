package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meddesk/clinic-api/internal/config"
	apptHandler "github.com/meddesk/clinic-api/internal/handler/appointment"
	authHandler "github.com/meddesk/clinic-api/internal/handler/auth"
	clinicHandler "github.com/meddesk/clinic-api/internal/handler/clinic"
	whHandler "github.com/meddesk/clinic-api/internal/handler/workinghours"
	"github.com/meddesk/clinic-api/internal/repository/postgres"
	"github.com/meddesk/clinic-api/internal/router"
	apptService "github.com/meddesk/clinic-api/internal/service/appointment"
	authService "github.com/meddesk/clinic-api/internal/service/auth"
	clinicService "github.com/meddesk/clinic-api/internal/service/clinic"
	whService "github.com/meddesk/clinic-api/internal/service/workinghours"
	pkgauth "github.com/meddesk/clinic-api/pkg/auth"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/metrics"
	"github.com/meddesk/clinic-api/pkg/security"
	"github.com/meddesk/clinic-api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal(err, "failed to register validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.New("clinic_api", prometheus.DefaultRegisterer)
	hasher := security.NewBcryptHasher(0)
	jwtService := pkgauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hoursCache := gocache.New(cfg.Cache.WorkingHoursTTL, 2*cfg.Cache.WorkingHoursTTL)

	workingHoursRepo := postgres.NewWorkingHoursRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)

	workingHoursSvc := whService.NewService(workingHoursRepo, hoursCache, log, m, cfg.Messages)
	appointmentSvc := apptService.NewService(appointmentRepo, workingHoursSvc, log, m, cfg.Messages)
	clinicSvc := clinicService.NewService(clinicRepo, hasher, log)
	authSvc := authService.NewService(clinicRepo, hasher, jwtService, log)

	handlers := &router.Handlers{
		Auth:         authHandler.NewHandler(authSvc),
		Clinic:       clinicHandler.NewHandler(clinicSvc),
		WorkingHours: whHandler.NewHandler(workingHoursSvc),
		Appointment:  apptHandler.NewHandler(appointmentSvc),
	}

	engine := router.New(cfg, log, db, jwtService, m, handlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
