package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/meinhoongagan/conectados/config"
	"github.com/meinhoongagan/conectados/controllers"
	"github.com/meinhoongagan/conectados/db"
	"github.com/meinhoongagan/conectados/middleware"
	"github.com/meinhoongagan/conectados/queue"
	"github.com/meinhoongagan/conectados/redis"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/routes"
	"github.com/meinhoongagan/conectados/services"
	"github.com/meinhoongagan/conectados/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.ApplyLogLevel()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}
	store := repository.NewGormStore(gdb)

	opts := []services.Option{}
	if cfg.RedisAddr != "" {
		client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		opts = append(opts, services.WithSlotLocker(redis.NewSlotLocker(client, cfg.SlotLockTTL)))
		log.Info("✅ Connected to Redis")
	}
	if cfg.AMQPURL != "" {
		publisher, err := queue.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Warnf("event publishing disabled: %v", err)
		} else {
			defer publisher.Close()
			opts = append(opts, services.WithPublisher(publisher))
		}
	}
	if cfg.MailEnabled() {
		opts = append(opts, services.WithMailer(utils.NewMailer(cfg.SMTP)))
	}
	if cfg.Cloudinary.Enabled() {
		uploader, err := utils.NewUploader(cfg.Cloudinary)
		if err != nil {
			log.Warnf("photo uploads disabled: %v", err)
		} else {
			opts = append(opts, services.WithUploader(uploader))
		}
	}

	users := services.NewUserService(store, cfg.Tokens(), cfg.BcryptCost, opts...)
	catalog := services.NewCatalogService(store, opts...)
	appointments := services.NewAppointmentService(store, opts...)
	reviews := services.NewReviewService(store, opts...)

	app := routes.NewApp(routes.AppConfig{CORSOrigins: cfg.CORSOrigins, AccessLog: true}, routes.Handlers{
		Auth:         controllers.NewAuthController(users),
		Users:        controllers.NewUserController(users),
		Services:     controllers.NewServiceController(catalog),
		Appointments: controllers.NewAppointmentController(appointments),
		Reviews:      controllers.NewReviewController(reviews),
		Protected:    middleware.Protected([]byte(cfg.JWTSecret), store.Users()),
		Lookup:       store.Users(),
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Infof("server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
