package academy

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/identity"
)

var (
	// errors
	ErrNotFound         = errors.New("academy not found")
	ErrSettingsNotFound = errors.New("academy settings not found")
)

type (
	Repository interface {
		CreateAcademy(ctx context.Context, a Academy) (Academy, error)
		// QueryAcademies returns every academy, most recent first.
		QueryAcademies(ctx context.Context) ([]Academy, error)
		GetAcademy(ctx context.Context, id string) (Academy, error)
		UpdateAcademy(ctx context.Context, a Academy) (Academy, error)
		DeleteAcademy(ctx context.Context, id string) error
		// CountAcademies counts academies with `status`, or all of them when empty.
		CountAcademies(ctx context.Context, status string) (int, error)
		// HeadCounts fills the player and coach counts of Stats.
		HeadCounts(ctx context.Context, academyID string) (Stats, error)

		// GetSettings returns ErrSettingsNotFound if the academy never saved any.
		GetSettings(ctx context.Context, academyID string) (Settings, error)
		SaveSettings(ctx context.Context, s Settings) (Settings, error)
		// QueryAcademiesByReminderType returns the academies whose settings use `reminderType`.
		QueryAcademiesByReminderType(ctx context.Context, reminderType string) ([]Academy, error)
	}

	Service struct {
		repo          Repository
		bindings      identity.Repository
		defaultTarget float64
	}
)

func NewService(repo Repository, bindings identity.Repository, defaultTarget float64) *Service {
	return &Service{repo: repo, bindings: bindings, defaultTarget: defaultTarget}
}

// Create stores an approved academy. When `na.OwnerSubject` is set, the subject is bound as its owner;
// the academy is removed again if that binding cannot be stored.
func (svc *Service) Create(ctx context.Context, na NewAcademy) (Academy, error) {
	if na.OwnerSubject != "" {
		if _, err := svc.bindings.GetBinding(ctx, na.OwnerSubject); err == nil {
			return Academy{}, core.NewValidationError(identity.ErrBindingExists, core.FieldError{
				Field: "owner_subject",
				Error: identity.ErrBindingExists.Error(),
			})
		} else if errors.Cause(err) != identity.ErrNotFound {
			return Academy{}, errors.Wrap(err, "checking owner binding")
		}
	}

	now := core.NowFunc()
	a := Academy{
		ID:              uuid.New().String(),
		Name:            na.Name,
		OwnerName:       na.OwnerName,
		Email:           na.Email,
		Phone:           na.Phone,
		Location:        na.Location,
		SportsType:      na.SportsType,
		LogoURL:         na.LogoURL,
		PlayerLimit:     defaultPlayerLimit,
		CoachLimit:      defaultCoachLimit,
		Status:          StatusApproved,
		IdentitySubject: na.OwnerSubject,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if na.PlayerLimit != nil {
		a.PlayerLimit = *na.PlayerLimit
	}
	if na.CoachLimit != nil {
		a.CoachLimit = *na.CoachLimit
	}

	a, err := svc.repo.CreateAcademy(ctx, a)
	if err != nil {
		return Academy{}, errors.Wrap(err, "creating academy")
	}
	if a.IdentitySubject != "" {
		_, err = svc.bindings.CreateBinding(ctx, identity.Binding{
			Role:      identity.RoleAcademyOwner,
			Subject:   a.IdentitySubject,
			AcademyID: a.ID,
			CreatedAt: now,
		})
		if err != nil {
			// do not leave an academy without its owner behind
			if delErr := svc.repo.DeleteAcademy(ctx, a.ID); delErr != nil {
				return Academy{}, errors.Wrapf(err, "binding academy owner (academy %s not removed: %v)", a.ID, delErr)
			}
			return Academy{}, errors.Wrap(err, "binding academy owner")
		}
	}
	return a, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Academy, error) {
	return svc.repo.QueryAcademies(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Academy, error) {
	return svc.repo.GetAcademy(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateAcademy) (Academy, error) {
	a, err := svc.repo.GetAcademy(ctx, id)
	if err != nil {
		return Academy{}, err
	}
	ua.Apply(&a)
	a.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateAcademy(ctx, a)
}

// Delete removes the academy and every role binding scoped to it.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteAcademy(ctx, id); err != nil {
		return err
	}
	return errors.Wrap(svc.bindings.DeleteAcademyBindings(ctx, id), "deleting academy bindings")
}

func (svc *Service) Count(ctx context.Context, status string) (int, error) {
	return svc.repo.CountAcademies(ctx, status)
}

func (svc *Service) Stats(ctx context.Context, id string) (Stats, error) {
	a, err := svc.repo.GetAcademy(ctx, id)
	if err != nil {
		return Stats{}, err
	}
	stats, err := svc.repo.HeadCounts(ctx, id)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting academy members")
	}
	stats.PlayerLimit = a.PlayerLimit
	stats.CoachLimit = a.CoachLimit
	return stats, nil
}

// GetSettings returns the saved settings of the academy, or the defaults.
func (svc *Service) GetSettings(ctx context.Context, academyID string) (Settings, error) {
	s, err := svc.repo.GetSettings(ctx, academyID)
	if err != nil {
		if errors.Cause(err) == ErrSettingsNotFound {
			return DefaultSettings(academyID, svc.defaultTarget), nil
		}
		return Settings{}, err
	}
	return s, nil
}

func (svc *Service) UpdateSettings(ctx context.Context, academyID string, us UpdateSettings) (Settings, error) {
	s, err := svc.GetSettings(ctx, academyID)
	if err != nil {
		return Settings{}, err
	}
	us.Apply(&s)
	s.UpdatedAt = core.NowFunc()
	return svc.repo.SaveSettings(ctx, s)
}

// QueryAutomaticReminders returns the academies that opted in to automatic fee reminders.
func (svc *Service) QueryAutomaticReminders(ctx context.Context) ([]Academy, error) {
	return svc.repo.QueryAcademiesByReminderType(ctx, RemindAutomatically)
}
