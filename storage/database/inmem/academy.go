package inmemdb

import (
	"context"
	"sort"

	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type academyRepository struct {
	db *DB
}

var _ academy.Repository = (*academyRepository)(nil)

func NewAcademyRepository(db *DB) academy.Repository {
	return &academyRepository{db: db}
}

func (repo *academyRepository) CreateAcademy(_ context.Context, a academy.Academy) (academy.Academy, error) {
	t := repo.db.academies
	t.Lock()
	defer t.Unlock()

	t.rows[a.ID] = &a
	return a, nil
}

func (repo *academyRepository) QueryAcademies(_ context.Context) ([]academy.Academy, error) {
	t := repo.db.academies
	t.RLock()
	defer t.RUnlock()

	res := t.all()
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (repo *academyRepository) GetAcademy(_ context.Context, id string) (academy.Academy, error) {
	t := repo.db.academies
	t.RLock()
	defer t.RUnlock()

	if a, ok := t.rows[id]; ok {
		return *a, nil
	}
	return academy.Academy{}, academy.ErrNotFound
}

func (repo *academyRepository) UpdateAcademy(_ context.Context, a academy.Academy) (academy.Academy, error) {
	t := repo.db.academies
	t.Lock()
	defer t.Unlock()

	if _, ok := t.rows[a.ID]; !ok {
		return academy.Academy{}, academy.ErrNotFound
	}
	t.rows[a.ID] = &a
	return a, nil
}

func (repo *academyRepository) DeleteAcademy(_ context.Context, id string) error {
	t := repo.db.academies
	t.Lock()
	defer t.Unlock()

	if _, ok := t.rows[id]; !ok {
		return academy.ErrNotFound
	}
	delete(t.rows, id)

	settings := repo.db.settings
	settings.Lock()
	delete(settings.rows, id)
	settings.Unlock()
	return nil
}

func (repo *academyRepository) CountAcademies(_ context.Context, status string) (int, error) {
	t := repo.db.academies
	t.RLock()
	defer t.RUnlock()

	if status == "" {
		return len(t.rows), nil
	}
	return len(t.filter(func(a *academy.Academy) bool { return a.Status == status })), nil
}

func (repo *academyRepository) HeadCounts(_ context.Context, academyID string) (academy.Stats, error) {
	var stats academy.Stats

	players := repo.db.players
	players.RLock()
	for _, p := range players.rows {
		if p.AcademyID != academyID {
			continue
		}
		stats.TotalPlayers++
		if p.Status == player.StatusActive {
			stats.ActivePlayers++
		}
	}
	players.RUnlock()

	coaches := repo.db.coaches
	coaches.RLock()
	for _, c := range coaches.rows {
		if c.AcademyID != academyID {
			continue
		}
		stats.TotalCoaches++
		if c.Status == coach.StatusActive {
			stats.ActiveCoaches++
		}
	}
	coaches.RUnlock()

	return stats, nil
}

func (repo *academyRepository) GetSettings(_ context.Context, academyID string) (academy.Settings, error) {
	t := repo.db.settings
	t.RLock()
	defer t.RUnlock()

	if s, ok := t.rows[academyID]; ok {
		return *s, nil
	}
	return academy.Settings{}, academy.ErrSettingsNotFound
}

func (repo *academyRepository) SaveSettings(_ context.Context, s academy.Settings) (academy.Settings, error) {
	t := repo.db.settings
	t.Lock()
	defer t.Unlock()

	if orig, ok := t.rows[s.AcademyID]; ok {
		s.CreatedAt = orig.CreatedAt
	}
	t.rows[s.AcademyID] = &s
	return s, nil
}

func (repo *academyRepository) QueryAcademiesByReminderType(_ context.Context, reminderType string) ([]academy.Academy, error) {
	settings := repo.db.settings
	settings.RLock()
	ids := make(map[string]bool)
	for _, s := range settings.rows {
		if s.FeeReminderType == reminderType {
			ids[s.AcademyID] = true
		}
	}
	settings.RUnlock()

	t := repo.db.academies
	t.RLock()
	defer t.RUnlock()

	res := t.filter(func(a *academy.Academy) bool { return ids[a.ID] })
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}
