package identity

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Roles
const (
	RoleSuperAdmin   = "super_admin"
	RoleAcademyOwner = "academy_user"
	RoleCoach        = "coach"
	RolePlayer       = "player"
)

var (
	// BindableRoles are the roles that may be stored as a role binding.
	// The super-admin role is granted by the email allow-list only.
	BindableRoles = []string{RoleAcademyOwner, RoleCoach, RolePlayer}

	// errors
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("no role associated with this identity")
	ErrAmbiguousRole   = errors.New("identity is bound to more than one role")
	ErrNotFound        = errors.New("role binding not found")
	ErrBindingExists   = errors.New("a role binding already exists for this subject")
)

// Identity is what the identity provider knows about the caller.
type Identity struct {
	Subject string `json:"id"`
	Email   string `json:"email"`
}

// Binding is the role of an Identity along with the ids scoping its data access.
type Binding struct {
	Role      string    `json:"role" bson:"role"`
	Subject   string    `json:"subject" bson:"_id"`
	Email     string    `json:"email,omitempty" bson:"-"`
	AcademyID string    `json:"academy_id,omitempty" bson:"academy_id,omitempty"`
	CoachID   string    `json:"coach_id,omitempty" bson:"coach_id,omitempty"`
	PlayerID  string    `json:"player_id,omitempty" bson:"player_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC
}

func (b Binding) IsSuperAdmin() bool   { return b.Role == RoleSuperAdmin }
func (b Binding) IsAcademyOwner() bool { return b.Role == RoleAcademyOwner }
func (b Binding) IsCoach() bool        { return b.Role == RoleCoach }
func (b Binding) IsPlayer() bool       { return b.Role == RolePlayer }

// Identity returns the identity the binding was resolved for.
func (b Binding) Identity() Identity {
	return Identity{Subject: b.Subject, Email: b.Email}
}

// NewBinding contains information needed to store a role binding.
type NewBinding struct {
	Subject   string `json:"subject" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=academy_user coach player"`
	AcademyID string `json:"academy_id" validate:"required"`
	CoachID   string `json:"coach_id"`
	PlayerID  string `json:"player_id"`
}

func (nb *NewBinding) Validate(validate *validator.Validate) error {
	nb.Subject = core.CleanString(nb.Subject)
	nb.Role = core.CleanString(nb.Role, true /* lower */)
	nb.AcademyID = core.CleanString(nb.AcademyID)
	nb.CoachID = core.CleanString(nb.CoachID)
	nb.PlayerID = core.CleanString(nb.PlayerID)

	if err := validate.Struct(nb); err != nil {
		return err
	}
	switch {
	case nb.Role == RoleCoach && nb.CoachID == "":
		return core.NewValidationError(nil, core.FieldError{Field: "coach_id", Error: "this field is required"})
	case nb.Role == RolePlayer && nb.PlayerID == "":
		return core.NewValidationError(nil, core.FieldError{Field: "player_id", Error: "this field is required"})
	}
	return nil
}

// Binding returns the role binding to store.
func (nb NewBinding) Binding() Binding {
	b := Binding{
		Role:      nb.Role,
		Subject:   nb.Subject,
		AcademyID: nb.AcademyID,
		CreatedAt: core.NowFunc(),
	}
	switch nb.Role {
	case RoleCoach:
		b.CoachID = nb.CoachID
	case RolePlayer:
		b.PlayerID = nb.PlayerID
	}
	return b
}
