package inmemdb

import (
	"context"
	"sort"

	"github.com/Arun270647/tma-demo-repo/core/coach"
)

type coachRepository struct {
	db *table[coach.Coach]
}

var _ coach.Repository = (*coachRepository)(nil)

func NewCoachRepository(db *DB) coach.Repository {
	return &coachRepository{db: db.coaches}
}

func (repo *coachRepository) CreateCoach(_ context.Context, c coach.Coach) (coach.Coach, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[c.ID] = &c
	return c, nil
}

func (repo *coachRepository) QueryCoaches(_ context.Context, academyID string) ([]coach.Coach, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := repo.db.filter(func(c *coach.Coach) bool { return c.AcademyID == academyID })
	sort.Slice(res, func(i, j int) bool {
		if res[i].FullName() != res[j].FullName() {
			return res[i].FullName() < res[j].FullName()
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (repo *coachRepository) CountCoaches(_ context.Context, academyID, status string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := repo.db.filter(func(c *coach.Coach) bool {
		return c.AcademyID == academyID && (status == "" || c.Status == status)
	})
	return len(res), nil
}

func (repo *coachRepository) GetCoach(_ context.Context, academyID, id string) (coach.Coach, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.rows[id]; ok && c.AcademyID == academyID {
		return *c, nil
	}
	return coach.Coach{}, coach.ErrNotFound
}

func (repo *coachRepository) UpdateCoach(_ context.Context, c coach.Coach) (coach.Coach, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.rows[c.ID]
	if !ok || orig.AcademyID != c.AcademyID {
		return coach.Coach{}, coach.ErrNotFound
	}
	c.CreatedAt = orig.CreatedAt
	c.IdentitySubject = orig.IdentitySubject
	repo.db.rows[c.ID] = &c
	return c, nil
}

func (repo *coachRepository) DeleteCoach(_ context.Context, academyID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if c, ok := repo.db.rows[id]; !ok || c.AcademyID != academyID {
		return coach.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
