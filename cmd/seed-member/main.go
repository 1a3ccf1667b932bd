package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"membership-backend/config"
	"membership-backend/database"
	"membership-backend/logger"
	"membership-backend/models"
	"membership-backend/validation"

	"go.uber.org/zap"
)

func main() {
	name := flag.String("name", "Test Member", "full name")
	email := flag.String("email", "member@example.com", "email address")
	number := flag.String("membership-number", "MBR-0001", "membership number")
	memberType := flag.String("membership-type", "standard", "membership type")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	doc := &models.ProfileDocument{
		PersonalInfo: models.PersonalInfo{
			FullName: *name,
			Email:    *email,
		},
		ProfessionalInfo: models.ProfessionalProfile{
			MembershipNumber: *number,
			MembershipType:   *memberType,
			Qualifications:   []string{},
			Certifications:   []string{},
		},
		Preferences: models.Preferences{
			Notifications: models.NotificationPreferences{Email: true},
			Privacy:       models.PrivacyPreferences{ProfileVisibility: "members"},
		},
	}
	if err := validation.New().Validate(doc); err != nil {
		log.Fatal("invalid member", zap.Error(err))
	}

	ctx := context.Background()

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	userID, err := database.SeedMember(ctx, pool, doc)
	if err != nil {
		log.Fatal("failed to seed member", zap.Error(err))
	}

	log.Info("member created",
		zap.String("user_id", userID.String()),
		zap.String("email", *email),
		zap.String("membership_number", *number),
	)
}
