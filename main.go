package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldserve/config"
	"fieldserve/database"
	bookingRepoPkg "fieldserve/database/repository/booking"
	technicianRepoPkg "fieldserve/database/repository/technician"
	"fieldserve/handlers"
	"fieldserve/middleware"
	"fieldserve/routes"
	"fieldserve/services/booking"
	"fieldserve/services/notification"
	"fieldserve/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	bookings := bookingRepoPkg.NewMongoBookingRepo()
	technicians := technicianRepoPkg.NewMongoTechnicianRepo()

	// Services.
	bookingService := booking.NewDefaultBookingService(
		bookings,
		technicians,
		booking.StaticCatalog{},
		notification.LogNotifier{},
	)
	matchingService := &booking.DefaultMatchingService{TechRepo: technicians}

	// Handlers.
	bookingHandler := handlers.NewBookingHandler(bookingService)
	technicianHandler := handlers.NewTechnicianHandler(matchingService, technicians, utils.GetCacheClient())

	routes.RegisterRoutes(router, bookingHandler, technicianHandler)

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
