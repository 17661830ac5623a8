package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type attendanceRepository struct {
	db *DB
}

var (
	_ attendance.Repository = (*attendanceRepository)(nil)
	_ analytics.Source      = (*attendanceRepository)(nil)
)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// NewRadarSource returns the analytics.Source reading attendance records.
func NewRadarSource(db *DB) analytics.Source {
	return &attendanceRepository{db: db}
}

func matchRecord(f attendance.Filter) func(*attendance.Record) bool {
	return func(r *attendance.Record) bool {
		return (f.AcademyID == "" || r.AcademyID == f.AcademyID) &&
			(f.PlayerID == "" || r.PlayerID == f.PlayerID) &&
			(f.PlayerIDs == nil || core.ContainsString(f.PlayerIDs, r.PlayerID)) &&
			(f.Date == "" || r.Date == f.Date) &&
			(f.From == "" || r.Date >= f.From) &&
			(f.To == "" || r.Date <= f.To) &&
			(f.Present == nil || r.Present == *f.Present)
	}
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, r attendance.Record) (bool, error) {
	t := repo.db.attendance
	t.Lock()
	defer t.Unlock()

	for _, orig := range t.rows {
		if orig.AcademyID == r.AcademyID && orig.PlayerID == r.PlayerID && orig.Date == r.Date {
			r.ID = orig.ID
			r.CreatedAt = orig.CreatedAt
			t.rows[r.ID] = &r
			return false, nil
		}
	}
	t.rows[r.ID] = &r
	return true, nil
}

func (repo *attendanceRepository) GetRecord(_ context.Context, academyID, playerID, date string) (attendance.Record, error) {
	t := repo.db.attendance
	t.RLock()
	defer t.RUnlock()

	for _, r := range t.rows {
		if r.AcademyID == academyID && r.PlayerID == playerID && r.Date == date {
			return *r, nil
		}
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	t := repo.db.attendance
	t.RLock()
	defer t.RUnlock()

	res := t.filter(matchRecord(filter))
	sort.Slice(res, func(i, j int) bool {
		if res[i].Date != res[j].Date {
			return res[i].Date < res[j].Date
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (repo *attendanceRepository) QueryRadarRecords(_ context.Context, academyID string, since time.Time) ([]analytics.Record, error) {
	players := repo.db.players
	players.RLock()
	active := make(map[string]bool)
	for _, p := range players.rows {
		if p.AcademyID == academyID && p.Status == player.StatusActive {
			active[p.ID] = true
		}
	}
	players.RUnlock()

	t := repo.db.attendance
	t.RLock()
	defer t.RUnlock()

	res := make([]analytics.Record, 0)
	for _, r := range t.rows {
		if r.AcademyID != academyID || !r.Present || !active[r.PlayerID] || r.CreatedAt.Before(since) {
			continue
		}
		res = append(res, analytics.Record{Sport: r.Sport, Ratings: r.PerformanceRatings})
	}
	return res, nil
}
