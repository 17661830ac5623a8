package identity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nb NewBinding) (Binding, error) {
	b, err := svc.repo.CreateBinding(ctx, nb.Binding())
	if err != nil {
		if errors.Cause(err) == ErrBindingExists {
			return Binding{}, core.NewValidationError(err, core.FieldError{Field: "subject", Error: err.Error()})
		}
		return Binding{}, errors.Wrap(err, "creating role binding")
	}
	return b, nil
}

func (svc *Service) Get(ctx context.Context, subject string) (Binding, error) {
	return svc.repo.GetBinding(ctx, core.CleanString(subject))
}

// Query lists the stored bindings, optionally filtered by role.
func (svc *Service) Query(ctx context.Context, role string) ([]Binding, error) {
	return svc.repo.QueryBindings(ctx, core.CleanString(role, true /* lower */))
}

func (svc *Service) Delete(ctx context.Context, subject string) error {
	return svc.repo.DeleteBinding(ctx, core.CleanString(subject))
}

func (svc *Service) DeleteForAcademy(ctx context.Context, academyID string) error {
	return svc.repo.DeleteAcademyBindings(ctx, academyID)
}
