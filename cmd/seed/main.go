// Command seed bootstraps a development database with one user per role
// and a couple of appointments. Existing usernames are left untouched, so
// the command is safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/service"
	"github.com/medivault/clinical-portal/internal/crypto/fieldcipher"
	"github.com/medivault/clinical-portal/internal/infrastructure/config"
	mongodb "github.com/medivault/clinical-portal/internal/infrastructure/db/mongo"
)

type seedUser struct {
	username string
	password string
	fullName string
	email    string
	role     string
}

var seedUsers = []seedUser{
	{"alice_patient", "patient123", "Alice Anderson", "alice@example.com", domain.RolePatient},
	{"dr_bob", "medic123", "Dr. Bob Brown", "bob@example.com", domain.RoleMedic},
	{"carol_admin", "admin123", "Carol Clarke", "carol@example.com", domain.RoleAdmin},
}

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resolved, err := fieldcipher.ResolveKey(cfg.EncryptionKey, cfg.EncryptionKeyFile)
	if err != nil {
		log.Fatalf("resolve encryption key: %v", err)
	}
	if resolved.Generated() {
		log.Fatalf("no encryption key configured; set ENCRYPTION_KEY or %s before seeding", cfg.EncryptionKeyFile)
	}
	cipher, err := fieldcipher.New(resolved.Key)
	if err != nil {
		log.Fatalf("init cipher: %v", err)
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatalf("connect mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	appts := mongodb.NewAppointmentRepository(db)

	ids := make(map[string]string, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := service.HashPassword(su.password)
		if err != nil {
			log.Fatalf("hash password for %s: %v", su.username, err)
		}
		fullName, err := cipher.Encrypt(su.fullName)
		if err != nil {
			log.Fatalf("encrypt full name for %s: %v", su.username, err)
		}
		email, err := cipher.Encrypt(su.email)
		if err != nil {
			log.Fatalf("encrypt email for %s: %v", su.username, err)
		}

		now := time.Now().UTC()
		created, err := users.Create(ctx, &domain.User{
			Username:     su.username,
			PasswordHash: hash,
			Role:         su.role,
			FullName:     fullName,
			Email:        email,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, domain.ErrUserExists) {
			existing, ferr := users.FindByUsername(ctx, su.username)
			if ferr != nil {
				log.Fatalf("find existing %s: %v", su.username, ferr)
			}
			ids[su.username] = existing.ID
			fmt.Printf("user %s already present, skipped\n", su.username)
			continue
		}
		if err != nil {
			log.Fatalf("create %s: %v", su.username, err)
		}
		ids[su.username] = created.ID
		fmt.Printf("created %s (%s)\n", su.username, su.role)
	}

	existing, err := appts.ByPatient(ctx, ids["alice_patient"])
	if err != nil {
		log.Fatalf("list appointments: %v", err)
	}
	if len(existing) > 0 {
		fmt.Println("appointments already present, skipped")
		return
	}

	samples := []struct {
		date    string
		status  domain.AppointmentStatus
		details string
	}{
		{time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02"), domain.StatusScheduled, "Annual check-up"},
		{time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02"), domain.StatusCompleted, "Blood pressure follow-up"},
	}
	for _, sa := range samples {
		details, err := cipher.Encrypt(sa.details)
		if err != nil {
			log.Fatalf("encrypt appointment details: %v", err)
		}
		now := time.Now().UTC()
		appt := &domain.Appointment{
			ID:        uuid.NewString(),
			PatientID: ids["alice_patient"],
			MedicID:   ids["dr_bob"],
			Date:      sa.date,
			Status:    sa.status,
			Details:   details,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := appts.Create(ctx, appt); err != nil {
			log.Fatalf("create appointment: %v", err)
		}
		fmt.Printf("created appointment on %s (%s)\n", sa.date, sa.status)
	}
}
