package coach

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

type Coach struct {
	ID                    string    `json:"id" bson:"_id"`
	AcademyID             string    `json:"academy_id" bson:"academy_id"`
	FirstName             string    `json:"first_name" bson:"first_name"`
	LastName              string    `json:"last_name" bson:"last_name"`
	Email                 string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone                 string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Sports                []string  `json:"sports" bson:"sports"`
	Specialization        string    `json:"specialization,omitempty" bson:"specialization,omitempty"`
	ExperienceYears       *int      `json:"experience_years" bson:"experience_years,omitempty"`
	Qualifications        string    `json:"qualifications,omitempty" bson:"qualifications,omitempty"`
	Salary                *float64  `json:"salary,omitempty" bson:"salary,omitempty"`
	HireDate              string    `json:"hire_date,omitempty" bson:"hire_date,omitempty"`
	ContractEndDate       string    `json:"contract_end_date,omitempty" bson:"contract_end_date,omitempty"`
	EmergencyContactName  string    `json:"emergency_contact_name,omitempty" bson:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string    `json:"emergency_contact_phone,omitempty" bson:"emergency_contact_phone,omitempty"`
	Bio                   string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Status                string    `json:"status" bson:"status"`
	IdentitySubject       string    `json:"-" bson:"identity_subject,omitempty"`
	CreatedAt             time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt             time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (c Coach) FullName() string {
	return core.CleanString(c.FirstName + " " + c.LastName)
}

// NewCoach contains information needed to create a new Coach.
type NewCoach struct {
	FirstName             string   `json:"first_name" validate:"required"`
	LastName              string   `json:"last_name" validate:"required"`
	Email                 string   `json:"email" validate:"omitempty,email"`
	Phone                 string   `json:"phone"`
	Sports                []string `json:"sports" validate:"omitempty,dive,sport"`
	Specialization        string   `json:"specialization"`
	ExperienceYears       *int     `json:"experience_years" validate:"omitempty,min=0"`
	Qualifications        string   `json:"qualifications"`
	Salary                *float64 `json:"salary" validate:"omitempty,min=0"`
	HireDate              string   `json:"hire_date" validate:"omitempty,isodate"`
	ContractEndDate       string   `json:"contract_end_date" validate:"omitempty,isodate"`
	EmergencyContactName  string   `json:"emergency_contact_name"`
	EmergencyContactPhone string   `json:"emergency_contact_phone"`
	Bio                   string   `json:"bio"`
}

func (nc *NewCoach) Validate(validate *validator.Validate) error {
	nc.FirstName = core.CleanString(nc.FirstName)
	nc.LastName = core.CleanString(nc.LastName)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.Phone = core.CleanString(nc.Phone)
	nc.HireDate = core.CleanString(nc.HireDate)
	nc.ContractEndDate = core.CleanString(nc.ContractEndDate)
	return validate.Struct(nc)
}

// UpdateCoach defines what information may be provided to modify an existing Coach.
type UpdateCoach struct {
	FirstName             *string  `json:"first_name" validate:"omitempty,min=1"`
	LastName              *string  `json:"last_name" validate:"omitempty,min=1"`
	Email                 *string  `json:"email" validate:"omitempty,email"`
	Phone                 *string  `json:"phone"`
	Sports                []string `json:"sports" validate:"omitempty,dive,sport"`
	Specialization        *string  `json:"specialization"`
	ExperienceYears       *int     `json:"experience_years" validate:"omitempty,min=0"`
	Qualifications        *string  `json:"qualifications"`
	Salary                *float64 `json:"salary" validate:"omitempty,min=0"`
	HireDate              *string  `json:"hire_date" validate:"omitempty,isodate"`
	ContractEndDate       *string  `json:"contract_end_date" validate:"omitempty,isodate"`
	EmergencyContactName  *string  `json:"emergency_contact_name"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone"`
	Bio                   *string  `json:"bio"`
	Status                *string  `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

func (uc *UpdateCoach) Validate(validate *validator.Validate) error {
	for _, s := range []*string{
		uc.FirstName, uc.LastName, uc.Phone, uc.Specialization, uc.Qualifications, uc.HireDate,
		uc.ContractEndDate, uc.EmergencyContactName, uc.EmergencyContactPhone, uc.Bio, uc.Status,
	} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	if uc.Email != nil {
		*uc.Email = core.CleanString(*uc.Email, true /* lower */)
	}
	return validate.Struct(uc)
}

// Apply sets the provided fields on `c`.
func (uc UpdateCoach) Apply(c *Coach) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&c.FirstName, uc.FirstName)
	setStr(&c.LastName, uc.LastName)
	setStr(&c.Email, uc.Email)
	setStr(&c.Phone, uc.Phone)
	setStr(&c.Specialization, uc.Specialization)
	setStr(&c.Qualifications, uc.Qualifications)
	setStr(&c.HireDate, uc.HireDate)
	setStr(&c.ContractEndDate, uc.ContractEndDate)
	setStr(&c.EmergencyContactName, uc.EmergencyContactName)
	setStr(&c.EmergencyContactPhone, uc.EmergencyContactPhone)
	setStr(&c.Bio, uc.Bio)
	setStr(&c.Status, uc.Status)
	if uc.Sports != nil {
		c.Sports = uc.Sports
	}
	if uc.ExperienceYears != nil {
		c.ExperienceYears = uc.ExperienceYears
	}
	if uc.Salary != nil {
		c.Salary = uc.Salary
	}
}
