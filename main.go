package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/tablefy/controllers"
	"github.com/Kariqs/tablefy/initializers"
	"github.com/Kariqs/tablefy/middlewares"
	"github.com/Kariqs/tablefy/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	initializers.LoadEnv()
}

func main() {
	cfg := initializers.LoadConfig()
	log := initializers.NewLogger(cfg)

	store, err := initializers.ConnectToStorage(cfg, log)
	if err != nil {
		log.Fatal("storage unavailable", zap.Error(err))
	}

	app := initializers.NewApp(cfg, store, log)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Start(ctx)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.New()
	server.Use(gin.Recovery(), middlewares.RequestLogger(log.Named("http")))
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.StaffPinHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	c := &controllers.Controller{
		Cart:       app.Cart,
		Queue:      app.Queue,
		Checkout:   app.Checkout,
		API:        app.API,
		Cache:      app.Cache,
		Feed:       app.Feed,
		Rooms:      app.Channel,
		Log:        log.Named("controllers"),
		Restaurant: cfg.RestaurantID,
	}
	routes.RegisterRoutes(server, c, middlewares.RequireStaff(cfg.StaffPinHash))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server}
	go func() {
		log.Info("companion server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
