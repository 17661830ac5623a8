package demo

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
)

// ErrNotFound is returned when no demo request has the requested id.
var ErrNotFound = errors.New("demo request not found")

type (
	Repository interface {
		CreateRequest(ctx context.Context, r Request) (Request, error)
		// QueryRequests returns the requests matching `filter`, most recent first.
		QueryRequests(ctx context.Context, filter Filter) ([]Request, error)
		CountRequests(ctx context.Context, status string) (int, error)
		GetRequest(ctx context.Context, id string) (Request, error)
		UpdateRequest(ctx context.Context, r Request) (Request, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a pending request. `requestedBy` is the subject of the caller, if any.
func (svc *Service) Create(ctx context.Context, nr NewRequest, requestedBy string) (Request, error) {
	now := core.NowFunc()
	return svc.repo.CreateRequest(ctx, Request{
		ID:              uuid.New().String(),
		FullName:        nr.FullName,
		Email:           nr.Email,
		Phone:           nr.Phone,
		AcademyName:     nr.AcademyName,
		Location:        nr.Location,
		SportsType:      nr.SportsType,
		CurrentStudents: nr.CurrentStudents,
		Message:         nr.Message,
		Status:          StatusPending,
		RequestedBy:     requestedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Request, error) {
	return svc.repo.QueryRequests(ctx, filter)
}

func (svc *Service) Count(ctx context.Context, status string) (int, error) {
	return svc.repo.CountRequests(ctx, status)
}

func (svc *Service) UpdateStatus(ctx context.Context, id string, ur UpdateRequest) (Request, error) {
	r, err := svc.repo.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	r.Status = ur.Status
	r.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateRequest(ctx, r)
}
