package attendance

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

// ErrNotFound is returned when no record exists for the requested player and date.
var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		// UpsertRecord stores `r` as the record of (academy, player, date).
		// It keeps the id and creation time of an existing record and reports whether one was created.
		UpsertRecord(ctx context.Context, r Record) (created bool, err error)
		GetRecord(ctx context.Context, academyID, playerID, date string) (Record, error)
		// QueryRecords returns the records matching `filter`, sorted by date.
		QueryRecords(ctx context.Context, filter Filter) ([]Record, error)
	}

	// Players resolves the players records refer to.
	Players interface {
		Get(ctx context.Context, academyID, id string) (player.Player, error)
		Query(ctx context.Context, filter player.Filter) ([]player.Player, error)
	}

	Service struct {
		repo    Repository
		players Players
	}
)

func NewService(repo Repository, players Players) *Service {
	return &Service{repo: repo, players: players}
}

// Mark stores the attendance of every entry of `mr`. Entries for players outside the academy are
// skipped, as are those for players not assigned to `coachID` when it is set.
func (svc *Service) Mark(ctx context.Context, academyID, markedBy, coachID string, mr MarkRequest) (MarkResponse, error) {
	res := MarkResponse{Message: "Attendance marked successfully", Results: make([]MarkResult, 0, len(mr.AttendanceRecords))}
	for _, e := range mr.AttendanceRecords {
		p, err := svc.players.Get(ctx, academyID, e.PlayerID)
		if err != nil {
			if errors.Cause(err) == player.ErrNotFound {
				continue
			}
			return MarkResponse{}, errors.Wrap(err, "fetching player")
		}
		if coachID != "" && p.CoachID != coachID {
			continue
		}

		date := e.Date
		if date == "" {
			date = mr.Date
		}
		sport := e.Sport
		if sport == "" {
			sport = p.Sport
		}
		if sport == "" {
			sport = core.OtherSport
		}

		now := core.NowFunc()
		created, err := svc.repo.UpsertRecord(ctx, Record{
			ID:                 uuid.New().String(),
			PlayerID:           p.ID,
			AcademyID:          academyID,
			Date:               date,
			Present:            e.Present,
			Sport:              sport,
			PerformanceRatings: ratingsOf(e.PerformanceRatings),
			Notes:              e.Notes,
			MarkedBy:           markedBy,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		if err != nil {
			return MarkResponse{}, errors.Wrap(err, "storing attendance")
		}
		status := Updated
		if created {
			status = Created
		}
		res.Results = append(res.Results, MarkResult{PlayerID: p.ID, Status: status})
	}
	return res, nil
}

// ByDate lists the attendance marked on `date`, restricted to the players of `coachID` when set.
func (svc *Service) ByDate(ctx context.Context, academyID, date, coachID string) (Day, error) {
	records, err := svc.repo.QueryRecords(ctx, Filter{AcademyID: academyID, Date: date})
	if err != nil {
		return Day{}, err
	}
	pf := player.Filter{AcademyID: academyID, CoachID: coachID}
	players, err := svc.players.Query(ctx, pf)
	if err != nil {
		return Day{}, errors.Wrap(err, "querying players")
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	day := Day{Date: date, AttendanceRecords: make([]DayEntry, 0, len(records))}
	for _, r := range records {
		p, ok := byID[r.PlayerID]
		if !ok {
			continue
		}
		ratings := r.PerformanceRatings
		if ratings == nil {
			ratings = map[string]interface{}{}
		}
		day.AttendanceRecords = append(day.AttendanceRecords, DayEntry{
			AttendanceID:       r.ID,
			PlayerID:           r.PlayerID,
			PlayerName:         p.FullName(),
			Present:            r.Present,
			PerformanceRatings: ratings,
			Notes:              r.Notes,
			MarkedAt:           r.CreatedAt,
		})
	}
	return day, nil
}

// History returns the records of a player between `from` and `to` (inclusive, optional).
func (svc *Service) History(ctx context.Context, academyID, playerID, from, to string) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, Filter{AcademyID: academyID, PlayerID: playerID, From: from, To: to})
}

// Summary computes the academy attendance rate between `start` and `end` (inclusive, optional).
func (svc *Service) Summary(ctx context.Context, academyID, start, end string) (Summary, error) {
	records, err := svc.repo.QueryRecords(ctx, Filter{AcademyID: academyID, From: start, To: end})
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	if start != "" {
		s.DateRange.Start = &start
	}
	if end != "" {
		s.DateRange.End = &end
	}
	var ratingSum float64
	for _, r := range records {
		s.TotalRecords++
		if r.Present {
			s.PresentRecords++
		}
		if avg, ok := analytics.RecordAverage(r.PerformanceRatings); ok {
			ratingSum += avg
			s.TotalRatedRecords++
		}
	}
	s.OverallAttendanceRate = percentage(s.PresentRecords, s.TotalRecords)
	if s.TotalRatedRecords > 0 {
		avg := analytics.Round2(ratingSum / float64(s.TotalRatedRecords))
		s.AverageRating = &avg
	}
	return s, nil
}

// Performance summarises the attendance and ratings of a player over all their sessions.
func (svc *Service) Performance(ctx context.Context, p player.Player) (Performance, error) {
	records, err := svc.repo.QueryRecords(ctx, Filter{AcademyID: p.AcademyID, PlayerID: p.ID})
	if err != nil {
		return Performance{}, err
	}

	sport := p.Sport
	if sport == "" {
		sport = core.OtherSport
	}
	perf := Performance{
		PlayerID:         p.ID,
		PlayerName:       p.FullName(),
		Sport:            sport,
		PerformanceTrend: make([]TrendPoint, 0),
		MonthlyStats:     make(map[string]MonthStats),
	}

	type month struct {
		stats MonthStats
		sum   float64
		n     int
	}
	months := make(map[string]*month)
	var ratingSum float64
	for _, r := range records {
		perf.TotalSessions++
		key := r.Date
		if len(key) >= 7 {
			key = key[:7]
		}
		m, ok := months[key]
		if !ok {
			m = &month{}
			months[key] = m
		}
		m.stats.TotalSessions++
		if !r.Present {
			continue
		}
		perf.AttendedSessions++
		m.stats.AttendedSessions++
		if avg, ok := analytics.RecordAverage(r.PerformanceRatings); ok {
			ratingSum += avg
			m.sum += avg
			m.n++
			perf.PerformanceTrend = append(perf.PerformanceTrend, TrendPoint{
				Date:    r.Date,
				Rating:  avg,
				Ratings: r.PerformanceRatings,
				Notes:   r.Notes,
			})
		}
	}

	perf.AttendancePercentage = percentage(perf.AttendedSessions, perf.TotalSessions)
	if n := len(perf.PerformanceTrend); n > 0 {
		avg := analytics.Round2(ratingSum / float64(n))
		perf.AverageRating = &avg
	}
	sort.SliceStable(perf.PerformanceTrend, func(i, j int) bool {
		return perf.PerformanceTrend[i].Date < perf.PerformanceTrend[j].Date
	})
	for key, m := range months {
		m.stats.AttendancePercentage = percentage(m.stats.AttendedSessions, m.stats.TotalSessions)
		if m.n > 0 {
			avg := analytics.Round2(m.sum / float64(m.n))
			m.stats.AverageRating = &avg
		}
		perf.MonthlyStats[key] = m.stats
	}
	return perf, nil
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return analytics.Round2(float64(part) / float64(total) * 100)
}
