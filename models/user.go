package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a member row
type User struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	ProfileImage     string    `json:"profile_image"`
	MembershipNumber string    `json:"membership_number"`
	MembershipType   string    `json:"membership_type"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfessionalInfo is the one-to-one professional record of a member
type ProfessionalInfo struct {
	UserID            uuid.UUID `json:"user_id"`
	Specialization    string    `json:"specialization"`
	YearsOfExperience int       `json:"years_of_experience"`
	CurrentPosition   string    `json:"current_position"`
	Organization      string    `json:"organization"`
}

// UserPreferences represents notification and privacy settings
type UserPreferences struct {
	UserID             uuid.UUID `json:"user_id"`
	EmailNotifications bool      `json:"email_notifications"`
	SMSNotifications   bool      `json:"sms_notifications"`
	PushNotifications  bool      `json:"push_notifications"`
	ProfileVisibility  string    `json:"profile_visibility"`
	ShowContactInfo    bool      `json:"show_contact_info"`
	ShowQualifications bool      `json:"show_qualifications"`
}
