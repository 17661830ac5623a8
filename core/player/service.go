package player

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/identity"
)

var (
	// errors
	ErrNotFound           = errors.New("player not found")
	ErrRegistrationExists = errors.New("registration number is already taken")
	ErrInvalidPosition    = errors.New("invalid position for sport")
)

type (
	Repository interface {
		CreatePlayer(ctx context.Context, p Player) (Player, error)
		// QueryPlayers returns the players matching `filter`, sorted by name.
		QueryPlayers(ctx context.Context, filter Filter) ([]Player, error)
		CountPlayers(ctx context.Context, filter Filter) (int, error)
		GetPlayer(ctx context.Context, academyID, id string) (Player, error)
		UpdatePlayer(ctx context.Context, p Player) (Player, error)
		DeletePlayer(ctx context.Context, academyID, id string) error
		// SetCoach sets the coach of the listed academy players, "" unsets it.
		SetCoach(ctx context.Context, academyID string, ids []string, coachID string) (matched, modified int, err error)
		// UnsetCoach unassigns every player of the academy from `coachID`.
		UnsetCoach(ctx context.Context, academyID, coachID string) (int, error)
	}

	// BindingRemover drops the role bindings of a deleted player.
	BindingRemover interface {
		DeleteMemberBindings(ctx context.Context, academyID, role, memberID string) error
	}

	Service struct {
		repo     Repository
		bindings BindingRemover
	}
)

func NewService(repo Repository, bindings BindingRemover) *Service {
	return &Service{repo: repo, bindings: bindings}
}

func (svc *Service) checkRegistration(ctx context.Context, academyID, regNumber, excludedID string) error {
	if regNumber == "" {
		return nil
	}
	players, err := svc.repo.QueryPlayers(ctx, Filter{
		AcademyID:          academyID,
		Status:             StatusActive,
		RegistrationNumber: regNumber,
	})
	if err != nil {
		return errors.Wrap(err, "checking registration number")
	}
	for _, p := range players {
		if p.ID != excludedID {
			return core.NewValidationError(ErrRegistrationExists, core.FieldError{
				Field: "registration_number",
				Error: fmt.Sprintf("Registration number %s is already taken", regNumber),
			})
		}
	}
	return nil
}

// Create stores a new active player unless the academy already has `limit` active players.
func (svc *Service) Create(ctx context.Context, academyID string, limit int, np NewPlayer) (Player, error) {
	active, err := svc.repo.CountPlayers(ctx, Filter{AcademyID: academyID, Status: StatusActive})
	if err != nil {
		return Player{}, errors.Wrap(err, "counting active players")
	}
	if active >= limit {
		return Player{}, core.NewLimitError("player", limit)
	}
	if err = svc.checkRegistration(ctx, academyID, np.RegistrationNumber, ""); err != nil {
		return Player{}, err
	}

	now := core.NowFunc()
	p := Player{
		ID:                    uuid.New().String(),
		AcademyID:             academyID,
		CoachID:               np.CoachID,
		FirstName:             np.FirstName,
		LastName:              np.LastName,
		Email:                 np.Email,
		Phone:                 np.Phone,
		DateOfBirth:           np.DateOfBirth,
		Age:                   np.Age,
		Gender:                np.Gender,
		Sport:                 np.Sport,
		RegistrationNumber:    np.RegistrationNumber,
		Height:                np.Height,
		Weight:                np.Weight,
		PhotoURL:              np.PhotoURL,
		TrainingDays:          np.TrainingDays,
		TrainingBatch:         np.TrainingBatch,
		EmergencyContactName:  np.EmergencyContactName,
		EmergencyContactPhone: np.EmergencyContactPhone,
		MedicalNotes:          np.MedicalNotes,
		Status:                StatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if p.Age == nil {
		p.Age = deriveAge(p.DateOfBirth)
	}
	if np.Position != "" {
		pos := np.Position
		p.Position = &pos
	}
	if p.TrainingDays == nil {
		p.TrainingDays = []string{}
	}
	return svc.repo.CreatePlayer(ctx, p)
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Player, error) {
	return svc.repo.QueryPlayers(ctx, filter)
}

func (svc *Service) Count(ctx context.Context, filter Filter) (int, error) {
	return svc.repo.CountPlayers(ctx, filter)
}

func (svc *Service) Get(ctx context.Context, academyID, id string) (Player, error) {
	return svc.repo.GetPlayer(ctx, academyID, id)
}

func (svc *Service) Update(ctx context.Context, academyID, id string, up UpdatePlayer) (Player, error) {
	p, err := svc.repo.GetPlayer(ctx, academyID, id)
	if err != nil {
		return Player{}, err
	}
	if up.RegistrationNumber != nil && *up.RegistrationNumber != p.RegistrationNumber {
		if err = svc.checkRegistration(ctx, academyID, *up.RegistrationNumber, id); err != nil {
			return Player{}, err
		}
	}
	if up.Position != nil && up.Sport == nil {
		if err = validatePosition(p.Sport, *up.Position); err != nil {
			return Player{}, err
		}
	}
	up.Apply(&p)
	p.UpdatedAt = core.NowFunc()
	return svc.repo.UpdatePlayer(ctx, p)
}

// Delete removes the player and their role binding.
func (svc *Service) Delete(ctx context.Context, academyID, id string) error {
	if err := svc.repo.DeletePlayer(ctx, academyID, id); err != nil {
		return err
	}
	return errors.Wrap(svc.bindings.DeleteMemberBindings(ctx, academyID, identity.RolePlayer, id), "deleting player role binding")
}

// AssignCoach sets (or unsets, when ba.CoachID is null) the coach of the listed players.
// Ids not belonging to the academy are reported as missing.
func (svc *Service) AssignCoach(ctx context.Context, academyID string, ba BulkAssign) (AssignResult, error) {
	res := AssignResult{MissingIDs: []string{}}
	if len(ba.PlayerIDs) == 0 {
		res.Message = "No players provided"
		return res, nil
	}

	existing, err := svc.repo.QueryPlayers(ctx, Filter{AcademyID: academyID, IDs: ba.PlayerIDs})
	if err != nil {
		return AssignResult{}, errors.Wrap(err, "querying players")
	}
	found := make(map[string]bool, len(existing))
	for _, p := range existing {
		found[p.ID] = true
	}
	ids := make([]string, 0, len(found))
	for _, id := range ba.PlayerIDs {
		if found[id] {
			ids = append(ids, id)
		} else {
			res.MissingIDs = append(res.MissingIDs, id)
		}
	}

	var coachID string
	if ba.CoachID.Valid {
		coachID = ba.CoachID.String
	}
	if len(ids) > 0 {
		res.MatchedCount, res.ModifiedCount, err = svc.repo.SetCoach(ctx, academyID, ids, coachID)
		if err != nil {
			return AssignResult{}, errors.Wrap(err, "assigning coach")
		}
	}

	action := "assigned"
	if coachID == "" {
		action = "unassigned"
	}
	res.Message = fmt.Sprintf("Successfully %s %d players.", action, res.ModifiedCount)
	return res, nil
}

// UnassignCoach detaches every player of the academy from the coach.
func (svc *Service) UnassignCoach(ctx context.Context, academyID, coachID string) (int, error) {
	return svc.repo.UnsetCoach(ctx, academyID, coachID)
}
