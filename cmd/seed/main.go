// Command seed fills an empty database with demo users, services and
// appointments. Every seeded account uses the password "secret123".
package main

import (
	"context"
	"flag"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2/log"

	"github.com/meinhoongagan/conectados/config"
	"github.com/meinhoongagan/conectados/db"
	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/services"
)

const password = "secret123"

func main() {
	providers := flag.Int("providers", 5, "number of providers")
	seekers := flag.Int("seekers", 10, "number of seekers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	gdb, err := db.Connect(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	gofakeit.Seed(time.Now().UnixNano())
	ctx := context.Background()
	store := repository.NewGormStore(gdb)
	users := services.NewUserService(store, cfg.Tokens(), cfg.BcryptCost)
	catalog := services.NewCatalogService(store)
	appointments := services.NewAppointmentService(store)

	admin, err := users.Register(ctx, services.RegisterInput{
		Name:     "Administrador",
		Email:    "admin@conectados.local",
		Password: password,
	})
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if _, err := users.GrantRole(ctx, services.System, admin.ID, string(models.RoleAdmin)); err != nil {
		log.Fatalf("grant admin: %v", err)
	}
	if _, err := users.SwitchActiveRole(ctx, services.System, admin.ID, string(models.RoleAdmin)); err != nil {
		log.Fatalf("activate admin: %v", err)
	}

	var serviceIDs, providerIDs []uint
	for i := 0; i < *providers; i++ {
		category := models.Categories[gofakeit.Number(0, len(models.Categories)-1)]
		p, err := users.Register(ctx, services.RegisterInput{
			Name:     gofakeit.Name(),
			Email:    gofakeit.Email(),
			Password: password,
			Phone:    gofakeit.Phone(),
			Roles:    []string{string(models.RoleProvider)},
			ProviderDetailsInput: services.ProviderDetailsInput{
				Zone:         gofakeit.City(),
				Categories:   []string{category},
				Description:  gofakeit.JobDescriptor() + " " + gofakeit.JobTitle(),
				Availability: []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes"},
				WorkStart:    "08:00",
				WorkEnd:      "18:00",
			},
		})
		if err != nil {
			log.Warnf("seed provider: %v", err)
			continue
		}
		price := float64(gofakeit.Number(10, 200))
		svc, err := catalog.Create(ctx, services.Actor{ID: p.ID, Role: models.RoleProvider}, services.ServiceInput{
			Name:        category + " " + gofakeit.Adjective(),
			Price:       &price,
			Zone:        p.Zone,
			Description: gofakeit.Phrase(),
			Category:    category,
		})
		if err != nil {
			log.Warnf("seed service: %v", err)
			continue
		}
		providerIDs = append(providerIDs, p.ID)
		serviceIDs = append(serviceIDs, svc.ID)
	}

	booked := 0
	for i := 0; i < *seekers; i++ {
		s, err := users.Register(ctx, services.RegisterInput{
			Name:     gofakeit.Name(),
			Email:    gofakeit.Email(),
			Password: password,
			Phone:    gofakeit.Phone(),
		})
		if err != nil {
			log.Warnf("seed seeker: %v", err)
			continue
		}
		if len(serviceIDs) == 0 {
			continue
		}
		k := i % len(serviceIDs)
		day := nextWeekday(time.Now().AddDate(0, 0, 1+i))
		_, err = appointments.Create(ctx, services.Actor{ID: s.ID, Role: models.RoleSeeker}, services.AppointmentInput{
			Date:       day.Format("2006-01-02"),
			Hour:       "10:00",
			ServiceID:  serviceIDs[k],
			SeekerID:   s.ID,
			ProviderID: providerIDs[k],
		})
		if err != nil {
			log.Warnf("seed appointment: %v", err)
			continue
		}
		booked++
	}
	log.Infof("seeded %d services and %d appointments", len(serviceIDs), booked)
}

func nextWeekday(t time.Time) time.Time {
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
