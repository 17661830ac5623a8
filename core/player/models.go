package player

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

type Player struct {
	ID                    string    `json:"id" bson:"_id"`
	AcademyID             string    `json:"academy_id" bson:"academy_id"`
	CoachID               string    `json:"coach_id,omitempty" bson:"coach_id,omitempty"`
	FirstName             string    `json:"first_name" bson:"first_name"`
	LastName              string    `json:"last_name" bson:"last_name"`
	Email                 string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone                 string    `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth           string    `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Age                   *int      `json:"age" bson:"age,omitempty"`
	Gender                string    `json:"gender" bson:"gender"`
	Sport                 string    `json:"sport" bson:"sport"`
	Position              *string   `json:"position" bson:"position,omitempty"`
	RegistrationNumber    string    `json:"registration_number,omitempty" bson:"registration_number,omitempty"`
	Height                string    `json:"height,omitempty" bson:"height,omitempty"`
	Weight                string    `json:"weight,omitempty" bson:"weight,omitempty"`
	PhotoURL              string    `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	TrainingDays          []string  `json:"training_days" bson:"training_days"`
	TrainingBatch         string    `json:"training_batch,omitempty" bson:"training_batch,omitempty"`
	EmergencyContactName  string    `json:"emergency_contact_name,omitempty" bson:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string    `json:"emergency_contact_phone,omitempty" bson:"emergency_contact_phone,omitempty"`
	MedicalNotes          string    `json:"medical_notes,omitempty" bson:"medical_notes,omitempty"`
	Status                string    `json:"status" bson:"status"`
	IdentitySubject       string    `json:"-" bson:"identity_subject,omitempty"`
	CreatedAt             time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt             time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (p Player) FullName() string {
	return core.CleanString(p.FirstName + " " + p.LastName)
}

func (p Player) IsActive() bool {
	return p.Status == StatusActive
}

// Filter selects players; zero fields are ignored and set fields are ANDed.
type Filter struct {
	AcademyID          string
	CoachID            string
	Status             string
	RegistrationNumber string
	IDs                []string
}

// NewPlayer contains information needed to create a new Player.
type NewPlayer struct {
	FirstName             string   `json:"first_name" validate:"required"`
	LastName              string   `json:"last_name" validate:"required"`
	Email                 string   `json:"email" validate:"omitempty,email"`
	Phone                 string   `json:"phone"`
	DateOfBirth           string   `json:"date_of_birth" validate:"omitempty,isodate"`
	Age                   *int     `json:"age" validate:"omitempty,min=0,max=120"`
	Gender                string   `json:"gender" validate:"required,oneof=Male Female Other"`
	Sport                 string   `json:"sport" validate:"required,sport"`
	Position              string   `json:"position"`
	RegistrationNumber    string   `json:"registration_number"`
	Height                string   `json:"height"`
	Weight                string   `json:"weight"`
	PhotoURL              string   `json:"photo_url" validate:"omitempty,url"`
	TrainingDays          []string `json:"training_days" validate:"omitempty,dive,weekday"`
	TrainingBatch         string   `json:"training_batch" validate:"omitempty,oneof=Morning Evening Both"`
	EmergencyContactName  string   `json:"emergency_contact_name"`
	EmergencyContactPhone string   `json:"emergency_contact_phone"`
	MedicalNotes          string   `json:"medical_notes"`
	CoachID               string   `json:"coach_id"`
}

func (np *NewPlayer) Validate(validate *validator.Validate) error {
	np.FirstName = core.CleanString(np.FirstName)
	np.LastName = core.CleanString(np.LastName)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.Phone = core.CleanString(np.Phone)
	np.DateOfBirth = core.CleanString(np.DateOfBirth)
	np.Sport = core.CleanString(np.Sport)
	np.Position = core.CleanString(np.Position)
	np.RegistrationNumber = core.CleanString(np.RegistrationNumber)
	np.CoachID = core.CleanString(np.CoachID)
	if err := validate.Struct(np); err != nil {
		return err
	}
	return validatePosition(np.Sport, np.Position)
}

// UpdatePlayer defines what information may be provided to modify an existing Player.
// An explicit `"coach_id": null` unassigns the player's coach.
type UpdatePlayer struct {
	FirstName             *string     `json:"first_name" validate:"omitempty,min=1"`
	LastName              *string     `json:"last_name" validate:"omitempty,min=1"`
	Email                 *string     `json:"email" validate:"omitempty,email"`
	Phone                 *string     `json:"phone"`
	DateOfBirth           *string     `json:"date_of_birth" validate:"omitempty,isodate"`
	Age                   *int        `json:"age" validate:"omitempty,min=0,max=120"`
	Gender                *string     `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Sport                 *string     `json:"sport" validate:"omitempty,sport"`
	Position              *string     `json:"position"`
	RegistrationNumber    *string     `json:"registration_number"`
	Height                *string     `json:"height"`
	Weight                *string     `json:"weight"`
	PhotoURL              *string     `json:"photo_url" validate:"omitempty,url"`
	TrainingDays          []string    `json:"training_days" validate:"omitempty,dive,weekday"`
	TrainingBatch         *string     `json:"training_batch" validate:"omitempty,oneof=Morning Evening Both"`
	EmergencyContactName  *string     `json:"emergency_contact_name"`
	EmergencyContactPhone *string     `json:"emergency_contact_phone"`
	MedicalNotes          *string     `json:"medical_notes"`
	Status                *string     `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	CoachID               null.String `json:"coach_id"`
}

func (up *UpdatePlayer) Validate(validate *validator.Validate) error {
	for _, s := range []*string{
		up.FirstName, up.LastName, up.Phone, up.DateOfBirth, up.Gender, up.Sport, up.Position,
		up.RegistrationNumber, up.Height, up.Weight, up.PhotoURL, up.TrainingBatch,
		up.EmergencyContactName, up.EmergencyContactPhone, up.MedicalNotes, up.Status,
	} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	if up.Email != nil {
		*up.Email = core.CleanString(*up.Email, true /* lower */)
	}
	if up.CoachID.Valid {
		up.CoachID.String = core.CleanString(up.CoachID.String)
	}
	if err := validate.Struct(up); err != nil {
		return err
	}
	if up.Sport != nil && up.Position != nil {
		return validatePosition(*up.Sport, *up.Position)
	}
	return nil
}

// Apply sets the provided fields on `p`.
func (up UpdatePlayer) Apply(p *Player) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&p.FirstName, up.FirstName)
	setStr(&p.LastName, up.LastName)
	setStr(&p.Email, up.Email)
	setStr(&p.Phone, up.Phone)
	setStr(&p.DateOfBirth, up.DateOfBirth)
	setStr(&p.Gender, up.Gender)
	setStr(&p.Sport, up.Sport)
	setStr(&p.RegistrationNumber, up.RegistrationNumber)
	setStr(&p.Height, up.Height)
	setStr(&p.Weight, up.Weight)
	setStr(&p.PhotoURL, up.PhotoURL)
	setStr(&p.TrainingBatch, up.TrainingBatch)
	setStr(&p.EmergencyContactName, up.EmergencyContactName)
	setStr(&p.EmergencyContactPhone, up.EmergencyContactPhone)
	setStr(&p.MedicalNotes, up.MedicalNotes)
	setStr(&p.Status, up.Status)
	if up.Position != nil {
		if *up.Position == "" {
			p.Position = nil
		} else {
			pos := *up.Position
			p.Position = &pos
		}
	}
	if up.TrainingDays != nil {
		p.TrainingDays = up.TrainingDays
	}
	if up.Age != nil {
		age := *up.Age
		p.Age = &age
	} else if up.DateOfBirth != nil {
		p.Age = deriveAge(p.DateOfBirth)
	}
	if up.CoachID.Set {
		p.CoachID = up.CoachID.String // "" when null
	}
}

// BulkAssign assigns the listed players to a coach, or unassigns them when CoachID is null.
type BulkAssign struct {
	PlayerIDs []string    `json:"player_ids"`
	CoachID   null.String `json:"coach_id"`
}

func (ba *BulkAssign) Validate(validate *validator.Validate) error {
	ids := make([]string, 0, len(ba.PlayerIDs))
	for _, id := range ba.PlayerIDs {
		if id = core.CleanString(id); id != "" {
			ids = append(ids, id)
		}
	}
	ba.PlayerIDs = ids
	if ba.CoachID.Valid {
		ba.CoachID.String = core.CleanString(ba.CoachID.String)
		ba.CoachID.Valid = ba.CoachID.String != ""
	}
	return validate.Struct(ba)
}

type AssignResult struct {
	Message       string   `json:"message"`
	ModifiedCount int      `json:"modified_count"`
	MatchedCount  int      `json:"matched_count"`
	MissingIDs    []string `json:"missing_ids"`
}

func validatePosition(sport, position string) error {
	if position == "" {
		return nil
	}
	positions, ok := core.SportPositions[sport]
	if ok && !core.ContainsString(positions, position) {
		return core.NewValidationError(ErrInvalidPosition, core.FieldError{
			Field: "position",
			Error: "invalid position '" + position + "' for sport '" + sport + "'",
		})
	}
	return nil
}

func deriveAge(dob string) *int {
	if dob == "" {
		return nil
	}
	if age, ok := core.AgeOn(dob, core.NowFunc()); ok {
		return &age
	}
	return nil
}
