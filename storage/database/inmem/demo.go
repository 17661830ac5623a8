package inmemdb

import (
	"context"
	"sort"

	"github.com/Arun270647/tma-demo-repo/core/demo"
)

type demoRepository struct {
	db *table[demo.Request]
}

var _ demo.Repository = (*demoRepository)(nil)

func NewDemoRepository(db *DB) demo.Repository {
	return &demoRepository{db: db.demos}
}

func (repo *demoRepository) CreateRequest(_ context.Context, r demo.Request) (demo.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[r.ID] = &r
	return r, nil
}

func (repo *demoRepository) QueryRequests(_ context.Context, filter demo.Filter) ([]demo.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := repo.db.filter(func(r *demo.Request) bool { return filter.Status == "" || r.Status == filter.Status })
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })

	if filter.Skip >= len(res) {
		return []demo.Request{}, nil
	}
	res = res[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < len(res) {
		res = res[:filter.Limit]
	}
	return res, nil
}

func (repo *demoRepository) CountRequests(_ context.Context, status string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.filter(func(r *demo.Request) bool { return status == "" || r.Status == status })), nil
}

func (repo *demoRepository) GetRequest(_ context.Context, id string) (demo.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.rows[id]; ok {
		return *r, nil
	}
	return demo.Request{}, demo.ErrNotFound
}

func (repo *demoRepository) UpdateRequest(_ context.Context, r demo.Request) (demo.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.rows[r.ID]
	if !ok {
		return demo.Request{}, demo.ErrNotFound
	}
	r.CreatedAt = orig.CreatedAt
	repo.db.rows[r.ID] = &r
	return r, nil
}
