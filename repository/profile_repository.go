package repository

import (
	"context"
	"errors"
	"fmt"

	"membership-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ProfileRepository reads and writes a member profile across the
// users, professional_info, qualifications, certifications and
// user_preferences tables.
type ProfileRepository struct {
	db     DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db DB, logger *zap.Logger) *ProfileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileRepository{db: db, logger: logger}
}

// Ping checks that a connection can be acquired
func (r *ProfileRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// GetProfile retrieves the full profile document of a member.
// All five reads run on one pinned connection inside a read-only transaction.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileDocument, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer r.rollback(ctx, tx, userID)

	user, err := r.getUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	info, err := r.getProfessionalInfo(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: professional info: %w", ErrStoreUnavailable, err)
	}

	qualifications, err := r.listValues(ctx, tx, `
		SELECT qualification
		FROM qualifications
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: qualifications: %w", ErrStoreUnavailable, err)
	}

	certifications, err := r.listValues(ctx, tx, `
		SELECT certification
		FROM certifications
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: certifications: %w", ErrStoreUnavailable, err)
	}

	prefs, err := r.getPreferences(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: preferences: %w", ErrStoreUnavailable, err)
	}

	return models.NewProfileDocument(user, info, qualifications, certifications, prefs), nil
}

// UpdateProfile replaces the member's profile in a single transaction.
// Qualifications and certifications are replaced as whole sets.
// On any failure the transaction is rolled back and nothing is applied.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, doc *models.ProfileDocument) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	committed := false
	defer func() {
		if !committed {
			r.rollback(ctx, tx, userID)
		}
	}()

	if err := r.updateUser(ctx, tx, userID, &doc.PersonalInfo); err != nil {
		return err
	}

	if err := r.upsertProfessionalInfo(ctx, tx, userID, &doc.ProfessionalInfo); err != nil {
		return fmt.Errorf("%w: professional info: %w", ErrWriteFailed, err)
	}

	if err := r.replaceValues(ctx, tx, userID,
		`DELETE FROM qualifications WHERE user_id = $1`,
		`INSERT INTO qualifications (user_id, qualification) VALUES ($1, $2)`,
		doc.ProfessionalInfo.Qualifications,
	); err != nil {
		return fmt.Errorf("%w: qualifications: %w", ErrWriteFailed, err)
	}

	if err := r.replaceValues(ctx, tx, userID,
		`DELETE FROM certifications WHERE user_id = $1`,
		`INSERT INTO certifications (user_id, certification) VALUES ($1, $2)`,
		doc.ProfessionalInfo.Certifications,
	); err != nil {
		return fmt.Errorf("%w: certifications: %w", ErrWriteFailed, err)
	}

	if err := r.upsertPreferences(ctx, tx, userID, &doc.Preferences); err != nil {
		return fmt.Errorf("%w: preferences: %w", ErrWriteFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrWriteFailed, err)
	}
	committed = true

	return nil
}

// UpdateProfileImage sets only the profile image path of a member
func (r *ProfileRepository) UpdateProfileImage(ctx context.Context, userID uuid.UUID, path string) error {
	query := `
		UPDATE users SET
			profile_image = $2,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID, path)
	if err != nil {
		return fmt.Errorf("%w: profile image: %w", ErrWriteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return nil
}

// rollback ends the transaction and releases its connection. It runs on a
// context detached from the caller so a cancelled request still returns the
// connection in a clean state. Failures are logged only.
func (r *ProfileRepository) rollback(ctx context.Context, tx pgx.Tx, userID uuid.UUID) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.Error("failed to roll back profile transaction",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

func (r *ProfileRepository) getUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone, ''),
			COALESCE(address, ''), COALESCE(profile_image, ''),
			COALESCE(membership_number, ''), COALESCE(membership_type, ''),
			created_at, updated_at
		FROM users
		WHERE id = $1`

	err := tx.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.Address,
		&user.ProfileImage,
		&user.MembershipNumber,
		&user.MembershipType,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: user: %w", ErrStoreUnavailable, err)
	}

	return user, nil
}

// getProfessionalInfo returns nil without error when the row is absent
func (r *ProfileRepository) getProfessionalInfo(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.ProfessionalInfo, error) {
	info := &models.ProfessionalInfo{UserID: userID}
	query := `
		SELECT COALESCE(specialization, ''), COALESCE(years_of_experience, 0),
			COALESCE(current_position, ''), COALESCE(organization, '')
		FROM professional_info
		WHERE user_id = $1`

	err := tx.QueryRow(ctx, query, userID).Scan(
		&info.Specialization,
		&info.YearsOfExperience,
		&info.CurrentPosition,
		&info.Organization,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return info, nil
}

// getPreferences returns nil without error when the row is absent
func (r *ProfileRepository) getPreferences(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs := &models.UserPreferences{UserID: userID}
	query := `
		SELECT email_notifications, sms_notifications, push_notifications,
			COALESCE(profile_visibility, ''), show_contact_info, show_qualifications
		FROM user_preferences
		WHERE user_id = $1`

	err := tx.QueryRow(ctx, query, userID).Scan(
		&prefs.EmailNotifications,
		&prefs.SMSNotifications,
		&prefs.PushNotifications,
		&prefs.ProfileVisibility,
		&prefs.ShowContactInfo,
		&prefs.ShowQualifications,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

func (r *ProfileRepository) listValues(ctx context.Context, tx pgx.Tx, query string, userID uuid.UUID) ([]string, error) {
	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	return values, rows.Err()
}

func (r *ProfileRepository) updateUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID, info *models.PersonalInfo) error {
	query := `
		UPDATE users SET
			full_name = $2,
			email = $3,
			phone = $4,
			address = $5,
			profile_image = $6,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		userID,
		info.FullName,
		info.Email,
		info.Phone,
		info.Address,
		info.ProfileImage,
	)
	if err != nil {
		return fmt.Errorf("%w: user: %w", ErrWriteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	return nil
}

func (r *ProfileRepository) upsertProfessionalInfo(ctx context.Context, tx pgx.Tx, userID uuid.UUID, info *models.ProfessionalProfile) error {
	query := `
		INSERT INTO professional_info (
			user_id, specialization, years_of_experience, current_position, organization
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			specialization = EXCLUDED.specialization,
			years_of_experience = EXCLUDED.years_of_experience,
			current_position = EXCLUDED.current_position,
			organization = EXCLUDED.organization`

	_, err := tx.Exec(ctx, query,
		userID,
		info.Specialization,
		info.YearsOfExperience,
		info.CurrentPosition,
		info.Organization,
	)
	return err
}

// replaceValues deletes every child row of the user and inserts values in order
func (r *ProfileRepository) replaceValues(ctx context.Context, tx pgx.Tx, userID uuid.UUID, deleteQuery, insertQuery string, values []string) error {
	if _, err := tx.Exec(ctx, deleteQuery, userID); err != nil {
		return err
	}

	for _, value := range values {
		if _, err := tx.Exec(ctx, insertQuery, userID, value); err != nil {
			return err
		}
	}

	return nil
}

func (r *ProfileRepository) upsertPreferences(ctx context.Context, tx pgx.Tx, userID uuid.UUID, prefs *models.Preferences) error {
	query := `
		INSERT INTO user_preferences (
			user_id, email_notifications, sms_notifications, push_notifications,
			profile_visibility, show_contact_info, show_qualifications
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			email_notifications = EXCLUDED.email_notifications,
			sms_notifications = EXCLUDED.sms_notifications,
			push_notifications = EXCLUDED.push_notifications,
			profile_visibility = EXCLUDED.profile_visibility,
			show_contact_info = EXCLUDED.show_contact_info,
			show_qualifications = EXCLUDED.show_qualifications,
			updated_at = NOW()`

	_, err := tx.Exec(ctx, query,
		userID,
		prefs.Notifications.Email,
		prefs.Notifications.SMS,
		prefs.Notifications.Push,
		prefs.Privacy.ProfileVisibility,
		prefs.Privacy.ShowContactInfo,
		prefs.Privacy.ShowQualifications,
	)
	return err
}
