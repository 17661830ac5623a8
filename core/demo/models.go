package demo

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusClosed    = "closed"
)

// Request is a prospective academy asking for a demo.
type Request struct {
	ID              string    `json:"id" bson:"_id"`
	FullName        string    `json:"full_name" bson:"full_name"`
	Email           string    `json:"email" bson:"email"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	AcademyName     string    `json:"academy_name" bson:"academy_name"`
	Location        string    `json:"location" bson:"location"`
	SportsType      string    `json:"sports_type" bson:"sports_type"`
	CurrentStudents string    `json:"current_students,omitempty" bson:"current_students,omitempty"`
	Message         string    `json:"message,omitempty" bson:"message,omitempty"`
	Status          string    `json:"status" bson:"status"`
	RequestedBy     string    `json:"-" bson:"requested_by,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// Filter pages through requests, most recent first.
type Filter struct {
	Status string `json:"status" query:"status" validate:"omitempty,oneof=pending contacted converted closed"`
	Skip   int    `json:"skip" query:"skip" validate:"min=0"`
	Limit  int    `json:"limit" query:"limit" validate:"min=0"`
}

const (
	defaultLimit = 50
	maxLimit     = 100
)

func (f *Filter) Validate(validate *validator.Validate) error {
	f.Status = core.CleanString(f.Status, true /* lower */)
	if err := validate.Struct(f); err != nil {
		return err
	}
	if f.Limit == 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return nil
}

type NewRequest struct {
	FullName        string `json:"full_name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"max=50"`
	AcademyName     string `json:"academy_name" validate:"required,max=200"`
	Location        string `json:"location" validate:"required,max=200"`
	SportsType      string `json:"sports_type" validate:"required,max=200"`
	CurrentStudents string `json:"current_students" validate:"max=50"`
	Message         string `json:"message" validate:"max=5000"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.FullName = core.CleanString(nr.FullName)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	nr.Phone = core.CleanString(nr.Phone)
	nr.AcademyName = core.CleanString(nr.AcademyName)
	nr.Location = core.CleanString(nr.Location)
	nr.SportsType = core.CleanString(nr.SportsType)
	nr.CurrentStudents = core.CleanString(nr.CurrentStudents)
	nr.Message = core.CleanString(nr.Message)
	return validate.Struct(nr)
}

type UpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted converted closed"`
}

func (ur *UpdateRequest) Validate(validate *validator.Validate) error {
	ur.Status = core.CleanString(ur.Status, true /* lower */)
	return validate.Struct(ur)
}
