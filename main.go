package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"appointo/config"
	"appointo/cron"
	"appointo/database"
	bookingRepo "appointo/database/repository/booking"
	serviceRepo "appointo/database/repository/service"
	staffRepo "appointo/database/repository/staff"
	tenantRepo "appointo/database/repository/tenant"
	"appointo/handlers"
	"appointo/middleware"
	"appointo/routes"
	"appointo/services/booking"
	"appointo/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	tenants := tenantRepo.NewMongoTenantRepo()
	staff := staffRepo.NewMongoStaffRepo()
	services := serviceRepo.NewMongoServiceRepo()

	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	confirmScheduler := cron.NewConfirmScheduler()
	defer confirmScheduler.Close()

	engine := &booking.DefaultBookingEngine{
		BookingRepo:       bookings,
		TenantRepo:        tenants,
		StaffRepo:         staff,
		ServiceRepo:       services,
		Confirm:           confirmScheduler,
		ValidationTimeout: time.Duration(config.AppConfig.ValidationTimeoutMs) * time.Millisecond,
		SuggestionLimit:   config.AppConfig.SuggestionLimit,
		SuggestionStep:    time.Duration(config.AppConfig.SuggestionStepMin) * time.Minute,
	}

	cron.InitAutoConfirmWorker(engine)

	decisionCache := &utils.RedisDecisionCache{Client: utils.GetCacheClient()}
	bookingHandler := handlers.NewBookingHandler(engine, decisionCache, logger)
	routes.RegisterRoutes(router, bookingHandler)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
