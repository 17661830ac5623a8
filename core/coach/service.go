package coach

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/identity"
)

// ErrNotFound is returned when no coach of the academy has the requested id.
var ErrNotFound = errors.New("coach not found")

type (
	Repository interface {
		CreateCoach(ctx context.Context, c Coach) (Coach, error)
		// QueryCoaches returns the coaches of the academy, sorted by name.
		QueryCoaches(ctx context.Context, academyID string) ([]Coach, error)
		// CountCoaches counts the academy coaches with `status`, or all of them when empty.
		CountCoaches(ctx context.Context, academyID, status string) (int, error)
		GetCoach(ctx context.Context, academyID, id string) (Coach, error)
		UpdateCoach(ctx context.Context, c Coach) (Coach, error)
		DeleteCoach(ctx context.Context, academyID, id string) error
	}

	// PlayerUnassigner detaches players from a deleted coach.
	PlayerUnassigner interface {
		UnassignCoach(ctx context.Context, academyID, coachID string) (int, error)
	}

	// BindingRemover drops the role bindings of a deleted coach.
	BindingRemover interface {
		DeleteMemberBindings(ctx context.Context, academyID, role, memberID string) error
	}

	Service struct {
		repo     Repository
		players  PlayerUnassigner
		bindings BindingRemover
	}
)

func NewService(repo Repository, players PlayerUnassigner, bindings BindingRemover) *Service {
	return &Service{repo: repo, players: players, bindings: bindings}
}

// Create stores a new active coach unless the academy already has `limit` active coaches.
func (svc *Service) Create(ctx context.Context, academyID string, limit int, nc NewCoach) (Coach, error) {
	active, err := svc.repo.CountCoaches(ctx, academyID, StatusActive)
	if err != nil {
		return Coach{}, errors.Wrap(err, "counting active coaches")
	}
	if active >= limit {
		return Coach{}, core.NewLimitError("coach", limit)
	}

	now := core.NowFunc()
	c := Coach{
		ID:                    uuid.New().String(),
		AcademyID:             academyID,
		FirstName:             nc.FirstName,
		LastName:              nc.LastName,
		Email:                 nc.Email,
		Phone:                 nc.Phone,
		Sports:                nc.Sports,
		Specialization:        nc.Specialization,
		ExperienceYears:       nc.ExperienceYears,
		Qualifications:        nc.Qualifications,
		Salary:                nc.Salary,
		HireDate:              nc.HireDate,
		ContractEndDate:       nc.ContractEndDate,
		EmergencyContactName:  nc.EmergencyContactName,
		EmergencyContactPhone: nc.EmergencyContactPhone,
		Bio:                   nc.Bio,
		Status:                StatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if c.Sports == nil {
		c.Sports = []string{}
	}
	return svc.repo.CreateCoach(ctx, c)
}

func (svc *Service) Query(ctx context.Context, academyID string) ([]Coach, error) {
	return svc.repo.QueryCoaches(ctx, academyID)
}

func (svc *Service) Count(ctx context.Context, academyID, status string) (int, error) {
	return svc.repo.CountCoaches(ctx, academyID, status)
}

func (svc *Service) Get(ctx context.Context, academyID, id string) (Coach, error) {
	return svc.repo.GetCoach(ctx, academyID, id)
}

func (svc *Service) Update(ctx context.Context, academyID, id string, uc UpdateCoach) (Coach, error) {
	c, err := svc.repo.GetCoach(ctx, academyID, id)
	if err != nil {
		return Coach{}, err
	}
	uc.Apply(&c)
	c.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateCoach(ctx, c)
}

// Delete removes the coach with their role binding, and unassigns their players.
func (svc *Service) Delete(ctx context.Context, academyID, id string) error {
	if err := svc.repo.DeleteCoach(ctx, academyID, id); err != nil {
		return err
	}
	if err := svc.bindings.DeleteMemberBindings(ctx, academyID, identity.RoleCoach, id); err != nil {
		return errors.Wrap(err, "deleting coach role binding")
	}
	_, err := svc.players.UnassignCoach(ctx, academyID, id)
	return errors.Wrap(err, "unassigning coach players")
}
