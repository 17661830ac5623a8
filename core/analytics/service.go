package analytics

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
)

type (
	// Source provides the records the radars are computed over.
	Source interface {
		// QueryRadarRecords returns the present records of the active players of the academy
		// created at or after `since`.
		QueryRadarRecords(ctx context.Context, academyID string, since time.Time) ([]Record, error)
	}

	SkillRadar struct {
		Categories []CategoryAverage `json:"categories"`
		Target     float64           `json:"target"`
		Strengths  []string          `json:"strengths"`
		Weaknesses []string          `json:"weaknesses"`
		RatedCount int               `json:"rated_count"`
	}

	SportRadar struct {
		SportSummary
		Strengths  []string `json:"strengths"`
		Weaknesses []string `json:"weaknesses"`
	}

	SportSkillRadar struct {
		Target float64      `json:"target"`
		Sports []SportRadar `json:"sports"`
	}

	Service struct {
		source Source
		window time.Duration
	}
)

func NewService(source Source, windowDays int) *Service {
	return &Service{source: source, window: time.Duration(windowDays) * 24 * time.Hour}
}

func (svc *Service) records(ctx context.Context, academyID string) ([]Record, error) {
	recs, err := svc.source.QueryRadarRecords(ctx, academyID, core.NowFunc().Add(-svc.window))
	return recs, errors.Wrap(err, "querying radar records")
}

// SkillRadar averages the academy ratings over the fixed academy categories.
func (svc *Service) SkillRadar(ctx context.Context, academyID string, target float64) (SkillRadar, error) {
	recs, err := svc.records(ctx, academyID)
	if err != nil {
		return SkillRadar{}, err
	}
	sum := Aggregate(recs, core.AcademyCategories)
	strengths, weaknesses := Classify(sum.Categories, target)
	return SkillRadar{
		Categories: sum.Categories,
		Target:     target,
		Strengths:  strengths,
		Weaknesses: weaknesses,
		RatedCount: sum.RatedCount,
	}, nil
}

// SportSkillRadar averages the academy ratings per sport, over the categories of each sport.
func (svc *Service) SportSkillRadar(ctx context.Context, academyID string, target float64) (SportSkillRadar, error) {
	recs, err := svc.records(ctx, academyID)
	if err != nil {
		return SportSkillRadar{}, err
	}
	sums := AggregateBySport(recs)
	res := SportSkillRadar{Target: target, Sports: make([]SportRadar, 0, len(sums))}
	for _, s := range sums {
		strengths, weaknesses := Classify(s.Categories, target)
		res.Sports = append(res.Sports, SportRadar{SportSummary: s, Strengths: strengths, Weaknesses: weaknesses})
	}
	return res, nil
}
