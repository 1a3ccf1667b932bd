package database

import (
	"context"
	"fmt"

	"membership-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Beginner is satisfied by *pgxpool.Pool
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SeedMember inserts a member and every related row in one transaction and
// returns the generated user id.
func SeedMember(ctx context.Context, db Beginner, doc *models.ProfileDocument) (uuid.UUID, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p := doc.PersonalInfo
	prof := doc.ProfessionalInfo

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO users (
			full_name, email, phone, address, profile_image, membership_number, membership_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.FullName, p.Email, p.Phone, p.Address, p.ProfileImage,
		prof.MembershipNumber, prof.MembershipType,
	).Scan(&userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO professional_info (
			user_id, specialization, years_of_experience, current_position, organization
		) VALUES ($1, $2, $3, $4, $5)`,
		userID, prof.Specialization, prof.YearsOfExperience, prof.CurrentPosition, prof.Organization,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert professional info: %w", err)
	}

	for _, q := range prof.Qualifications {
		if _, err := tx.Exec(ctx, `INSERT INTO qualifications (user_id, qualification) VALUES ($1, $2)`, userID, q); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert qualification: %w", err)
		}
	}

	for _, c := range prof.Certifications {
		if _, err := tx.Exec(ctx, `INSERT INTO certifications (user_id, certification) VALUES ($1, $2)`, userID, c); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert certification: %w", err)
		}
	}

	prefs := doc.Preferences
	_, err = tx.Exec(ctx, `
		INSERT INTO user_preferences (
			user_id, email_notifications, sms_notifications, push_notifications,
			profile_visibility, show_contact_info, show_qualifications
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID,
		prefs.Notifications.Email, prefs.Notifications.SMS, prefs.Notifications.Push,
		prefs.Privacy.ProfileVisibility, prefs.Privacy.ShowContactInfo, prefs.Privacy.ShowQualifications,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert preferences: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return userID, nil
}
