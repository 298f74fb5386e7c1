// Command sweeper marks past pending appointments as completed. With
// SWEEP_SCHEDULE set it keeps running on that cron schedule, otherwise it
// sweeps once and exits.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/meinhoongagan/conectados/config"
	"github.com/meinhoongagan/conectados/cron"
	"github.com/meinhoongagan/conectados/db"
	"github.com/meinhoongagan/conectados/queue"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/services"
)

const runTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.ApplyLogLevel()

	gdb, err := db.Connect(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal(err)
	}

	var opts []services.Option
	if cfg.AMQPURL != "" {
		publisher, err := queue.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Warnf("event publishing disabled: %v", err)
		} else {
			defer publisher.Close()
			opts = append(opts, services.WithPublisher(publisher))
		}
	}
	appointments := services.NewAppointmentService(repository.NewGormStore(gdb), opts...)

	job := cron.SweepFunc(func(ctx context.Context) (int, error) {
		completed, err := appointments.Sweep(ctx)
		return len(completed), err
	})

	if cfg.SweepSchedule == "" {
		cron.RunOnce(context.Background(), runTimeout, job)
		return
	}

	c, err := cron.Start(cfg.SweepSchedule, runTimeout, job)
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	<-c.Stop().Done()
}
