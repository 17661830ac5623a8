package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/fee"
)

type feeRepository struct {
	db *table[fee.StudentFee]
}

var _ fee.Repository = (*feeRepository)(nil)

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db.fees}
}

func (repo *feeRepository) CreateFee(_ context.Context, f fee.StudentFee) (fee.StudentFee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) UpdateFee(_ context.Context, f fee.StudentFee) (fee.StudentFee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.rows[f.ID]
	if !ok || orig.AcademyID != f.AcademyID {
		return fee.StudentFee{}, fee.ErrNotFound
	}
	f.CreatedAt = orig.CreatedAt
	repo.db.rows[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) GetFee(_ context.Context, academyID, id string) (fee.StudentFee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.rows[id]; ok && f.AcademyID == academyID {
		return *f, nil
	}
	return fee.StudentFee{}, fee.ErrNotFound
}

func (repo *feeRepository) GetPlayerFee(_ context.Context, academyID, playerID string) (fee.StudentFee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var latest *fee.StudentFee
	for _, f := range repo.db.rows {
		if f.AcademyID != academyID || f.PlayerID != playerID {
			continue
		}
		if latest == nil || f.CreatedAt.After(latest.CreatedAt) {
			latest = f
		}
	}
	if latest == nil {
		return fee.StudentFee{}, fee.ErrNotFound
	}
	return *latest, nil
}

func (repo *feeRepository) QueryFees(_ context.Context, filter fee.Filter) ([]fee.StudentFee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := repo.db.filter(func(f *fee.StudentFee) bool {
		return (filter.AcademyID == "" || f.AcademyID == filter.AcademyID) &&
			(filter.AcademyIDs == nil || core.ContainsString(filter.AcademyIDs, f.AcademyID)) &&
			(filter.PlayerID == "" || f.PlayerID == filter.PlayerID) &&
			(filter.Statuses == nil || core.ContainsString(filter.Statuses, f.Status)) &&
			(filter.RemindableAt.IsZero() || f.LastReminderSent == nil || f.LastReminderSent.Before(filter.RemindableAt))
	})
	sort.Slice(res, func(i, j int) bool {
		if res[i].DueDate != res[j].DueDate {
			return res[i].DueDate < res[j].DueDate
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (repo *feeRepository) SetReminderSent(_ context.Context, id string, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	f, ok := repo.db.rows[id]
	if !ok {
		return fee.ErrNotFound
	}
	f.LastReminderSent = &at
	return nil
}
