package academy

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusSuspended = "suspended"
)

// Fee reminder types
const (
	RemindManually      = "manual"
	RemindAutomatically = "automatic"
)

const (
	defaultPlayerLimit = 50
	defaultCoachLimit  = 10
)

type Academy struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	OwnerName       string    `json:"owner_name" bson:"owner_name"`
	Email           string    `json:"email" bson:"email"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Location        string    `json:"location,omitempty" bson:"location,omitempty"`
	SportsType      string    `json:"sports_type,omitempty" bson:"sports_type,omitempty"`
	LogoURL         string    `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	PlayerLimit     int       `json:"player_limit" bson:"player_limit"`
	CoachLimit      int       `json:"coach_limit" bson:"coach_limit"`
	Status          string    `json:"status" bson:"status"`
	IdentitySubject string    `json:"-" bson:"identity_subject,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// NewAcademy contains information needed to create a new Academy.
// OwnerSubject, when set, binds an existing identity as the academy owner.
type NewAcademy struct {
	Name         string `json:"name" validate:"required"`
	OwnerName    string `json:"owner_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	SportsType   string `json:"sports_type"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
	PlayerLimit  *int   `json:"player_limit" validate:"omitempty,min=0"`
	CoachLimit   *int   `json:"coach_limit" validate:"omitempty,min=0"`
	OwnerSubject string `json:"owner_subject"`
}

func (na *NewAcademy) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	na.OwnerName = core.CleanString(na.OwnerName)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.Phone = core.CleanString(na.Phone)
	na.Location = core.CleanString(na.Location)
	na.SportsType = core.CleanString(na.SportsType)
	na.LogoURL = core.CleanString(na.LogoURL)
	na.OwnerSubject = core.CleanString(na.OwnerSubject)
	return validate.Struct(na)
}

// UpdateAcademy defines what information may be provided to modify an existing Academy.
type UpdateAcademy struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	OwnerName   *string `json:"owner_name" validate:"omitempty,min=1"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	SportsType  *string `json:"sports_type"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	PlayerLimit *int    `json:"player_limit" validate:"omitempty,min=0"`
	CoachLimit  *int    `json:"coach_limit" validate:"omitempty,min=0"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending approved rejected suspended"`
}

func (ua *UpdateAcademy) Validate(validate *validator.Validate) error {
	for _, s := range []*string{ua.Name, ua.OwnerName, ua.Phone, ua.Location, ua.SportsType, ua.LogoURL, ua.Status} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	return validate.Struct(ua)
}

// Apply sets the provided fields on `a`.
func (ua UpdateAcademy) Apply(a *Academy) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&a.Name, ua.Name)
	setStr(&a.OwnerName, ua.OwnerName)
	setStr(&a.Phone, ua.Phone)
	setStr(&a.Location, ua.Location)
	setStr(&a.SportsType, ua.SportsType)
	setStr(&a.LogoURL, ua.LogoURL)
	setStr(&a.Status, ua.Status)
	if ua.PlayerLimit != nil {
		a.PlayerLimit = *ua.PlayerLimit
	}
	if ua.CoachLimit != nil {
		a.CoachLimit = *ua.CoachLimit
	}
}

// Settings are the per-academy preferences editable by the academy owner.
type Settings struct {
	AcademyID       string            `json:"academy_id" bson:"_id"`
	Description     string            `json:"description,omitempty" bson:"description,omitempty"`
	Website         string            `json:"website,omitempty" bson:"website,omitempty"`
	SocialMedia     map[string]string `json:"social_media,omitempty" bson:"social_media,omitempty"`
	TrainingDays    []string          `json:"training_days" bson:"training_days"`
	TrainingTime    string            `json:"training_time,omitempty" bson:"training_time,omitempty"`
	FacilityAddress string            `json:"facility_address,omitempty" bson:"facility_address,omitempty"`
	FeeReminderType string            `json:"fee_reminder_type" bson:"fee_reminder_type"`
	DefaultTarget   float64           `json:"default_target" bson:"default_target"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"` // UTC
}

// DefaultSettings returns the settings of an academy that never saved any.
func DefaultSettings(academyID string, defaultTarget float64) Settings {
	now := core.NowFunc()
	return Settings{
		AcademyID:       academyID,
		TrainingDays:    []string{},
		FeeReminderType: RemindManually,
		DefaultTarget:   defaultTarget,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

type UpdateSettings struct {
	Description     *string           `json:"description"`
	Website         *string           `json:"website" validate:"omitempty,url"`
	SocialMedia     map[string]string `json:"social_media"`
	TrainingDays    []string          `json:"training_days" validate:"omitempty,dive,weekday"`
	TrainingTime    *string           `json:"training_time"`
	FacilityAddress *string           `json:"facility_address"`
	FeeReminderType *string           `json:"fee_reminder_type" validate:"omitempty,oneof=manual automatic"`
	DefaultTarget   *float64          `json:"default_target" validate:"omitempty,min=0,max=10"`
}

func (us *UpdateSettings) Validate(validate *validator.Validate) error {
	for _, s := range []*string{us.Description, us.Website, us.TrainingTime, us.FacilityAddress, us.FeeReminderType} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	return validate.Struct(us)
}

func (us UpdateSettings) Apply(s *Settings) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&s.Description, us.Description)
	setStr(&s.Website, us.Website)
	setStr(&s.TrainingTime, us.TrainingTime)
	setStr(&s.FacilityAddress, us.FacilityAddress)
	setStr(&s.FeeReminderType, us.FeeReminderType)
	if us.SocialMedia != nil {
		s.SocialMedia = us.SocialMedia
	}
	if us.TrainingDays != nil {
		s.TrainingDays = us.TrainingDays
	}
	if us.DefaultTarget != nil {
		s.DefaultTarget = *us.DefaultTarget
	}
}

// Stats are the head counts of an academy against its limits.
type Stats struct {
	TotalPlayers  int `json:"total_players"`
	ActivePlayers int `json:"active_players"`
	TotalCoaches  int `json:"total_coaches"`
	ActiveCoaches int `json:"active_coaches"`
	PlayerLimit   int `json:"player_limit"`
	CoachLimit    int `json:"coach_limit"`
}
