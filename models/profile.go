package models

// ProfileDocument is the nested view of a member spread over
// users, professional_info, qualifications, certifications and user_preferences.
type ProfileDocument struct {
	PersonalInfo     PersonalInfo        `json:"personalInfo"`
	ProfessionalInfo ProfessionalProfile `json:"professionalInfo"`
	Preferences      Preferences         `json:"preferences"`
}

type PersonalInfo struct {
	FullName     string `json:"fullName" validate:"max=255"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
	Phone        string `json:"phone" validate:"max=50"`
	Address      string `json:"address"`
	ProfileImage string `json:"profileImage"`
}

// ProfessionalProfile combines the membership columns of users with
// professional_info and the two child collections.
type ProfessionalProfile struct {
	MembershipNumber  string   `json:"membershipNumber"`
	MembershipType    string   `json:"membershipType"`
	Specialization    string   `json:"specialization" validate:"max=255"`
	YearsOfExperience int      `json:"yearsOfExperience" validate:"gte=0,lte=80"`
	CurrentPosition   string   `json:"currentPosition" validate:"max=255"`
	Organization      string   `json:"organization" validate:"max=255"`
	Qualifications    []string `json:"qualifications" validate:"dive,required,max=500"`
	Certifications    []string `json:"certifications" validate:"dive,required,max=500"`
}

type Preferences struct {
	Notifications NotificationPreferences `json:"notifications"`
	Privacy       PrivacyPreferences      `json:"privacy"`
}

type NotificationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

type PrivacyPreferences struct {
	ProfileVisibility  string `json:"profileVisibility" validate:"max=50"`
	ShowContactInfo    bool   `json:"showContactInfo"`
	ShowQualifications bool   `json:"showQualifications"`
}

// NewProfileDocument assembles the document from its rows. Missing
// professional info or preferences rows yield zero values.
func NewProfileDocument(user *User, info *ProfessionalInfo, qualifications, certifications []string, prefs *UserPreferences) *ProfileDocument {
	doc := &ProfileDocument{
		PersonalInfo: PersonalInfo{
			FullName:     user.FullName,
			Email:        user.Email,
			Phone:        user.Phone,
			Address:      user.Address,
			ProfileImage: user.ProfileImage,
		},
		ProfessionalInfo: ProfessionalProfile{
			MembershipNumber: user.MembershipNumber,
			MembershipType:   user.MembershipType,
			Qualifications:   nonNil(qualifications),
			Certifications:   nonNil(certifications),
		},
	}

	if info != nil {
		doc.ProfessionalInfo.Specialization = info.Specialization
		doc.ProfessionalInfo.YearsOfExperience = info.YearsOfExperience
		doc.ProfessionalInfo.CurrentPosition = info.CurrentPosition
		doc.ProfessionalInfo.Organization = info.Organization
	}

	if prefs != nil {
		doc.Preferences = Preferences{
			Notifications: NotificationPreferences{
				Email: prefs.EmailNotifications,
				SMS:   prefs.SMSNotifications,
				Push:  prefs.PushNotifications,
			},
			Privacy: PrivacyPreferences{
				ProfileVisibility:  prefs.ProfileVisibility,
				ShowContactInfo:    prefs.ShowContactInfo,
				ShowQualifications: prefs.ShowQualifications,
			},
		}
	}

	return doc
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
