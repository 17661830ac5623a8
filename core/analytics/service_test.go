package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arun270647/tma-demo-repo/core"
)

type fakeSource struct {
	records   []Record
	err       error
	academyID string
	since     time.Time
}

func (s *fakeSource) QueryRadarRecords(_ context.Context, academyID string, since time.Time) ([]Record, error) {
	s.academyID = academyID
	s.since = since
	return s.records, s.err
}

func TestService_SkillRadar(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	defer func() { core.NowFunc = func() time.Time { return time.Now().UTC() } }()

	src := &fakeSource{records: []Record{
		{Sport: "Football", Ratings: ratings("Technical Skills", 9, "Physical Fitness", 6, "Teamwork", 8)},
		{Sport: "Football", Ratings: ratings("Technical Skills", 8, "Teamwork", nil)},
		{Sport: "Tennis", Ratings: ratings("Consistency", 7)},
	}}
	svc := NewService(src, 180)

	radar, err := svc.SkillRadar(context.Background(), "ac1", DefaultTarget)
	require.NoError(t, err)

	assert.Equal(t, "ac1", src.academyID)
	assert.Equal(t, now.Add(-180*24*time.Hour), src.since)

	assert.Equal(t, DefaultTarget, radar.Target)
	assert.Equal(t, 3, radar.RatedCount)
	assert.Equal(t, []CategoryAverage{
		{Name: "Technical Skills", Average: 8.5, Count: 2},
		{Name: "Physical Fitness", Average: 6, Count: 1},
		{Name: "Tactical Awareness", Average: 0, Count: 0},
		{Name: "Mental Strength", Average: 0, Count: 0},
		{Name: "Teamwork", Average: 8, Count: 1},
	}, radar.Categories)
	assert.Equal(t, []string{"Technical Skills", "Teamwork"}, radar.Strengths)
	assert.Equal(t, []string{"Physical Fitness", "Tactical Awareness", "Mental Strength"}, radar.Weaknesses)
}

func TestService_SkillRadar_empty(t *testing.T) {
	svc := NewService(&fakeSource{}, 180)

	radar, err := svc.SkillRadar(context.Background(), "ac1", 5)
	require.NoError(t, err)

	got, err := json.Marshal(radar)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"categories": [
			{"name": "Technical Skills", "average": 0, "count": 0},
			{"name": "Physical Fitness", "average": 0, "count": 0},
			{"name": "Tactical Awareness", "average": 0, "count": 0},
			{"name": "Mental Strength", "average": 0, "count": 0},
			{"name": "Teamwork", "average": 0, "count": 0}
		],
		"target": 5,
		"strengths": [],
		"weaknesses": ["Technical Skills", "Physical Fitness", "Tactical Awareness", "Mental Strength", "Teamwork"],
		"rated_count": 0
	}`, string(got))
}

func TestService_SportSkillRadar(t *testing.T) {
	src := &fakeSource{records: []Record{
		{Sport: "Tennis", Ratings: ratings("Technical Skills", 9, "Consistency", 8)},
		{Sport: "Football", Ratings: ratings("Teamwork", 10)},
	}}
	svc := NewService(src, 180)

	radar, err := svc.SportSkillRadar(context.Background(), "ac1", 9)
	require.NoError(t, err)
	assert.Equal(t, 9.0, radar.Target)
	require.Len(t, radar.Sports, 2)

	football, tennis := radar.Sports[0], radar.Sports[1]
	assert.Equal(t, "Football", football.Sport)
	assert.Equal(t, []string{"Teamwork"}, football.Strengths)
	assert.Len(t, football.Weaknesses, 4)

	assert.Equal(t, "Tennis", tennis.Sport)
	assert.Equal(t, []string{"Technical Skills"}, tennis.Strengths)
	assert.Equal(t, []string{"Physical Fitness", "Mental Strength", "Match Strategy"}, tennis.Weaknesses)
	assert.Equal(t, 3.4, tennis.OverallAverage) // (9 + 0 + 0 + 0 + 8) / 5

	got, err := json.Marshal(tennis)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(got, &m))
	for _, key := range []string{"sport", "categories", "overall_average", "sample_size", "rated_count", "strengths", "weaknesses"} {
		assert.Contains(t, m, key)
	}
}

func TestService_sourceError(t *testing.T) {
	cause := errors.New("db down")
	svc := NewService(&fakeSource{err: cause}, 180)

	_, err := svc.SkillRadar(context.Background(), "ac1", DefaultTarget)
	assert.Equal(t, cause, errors.Cause(err))

	_, err = svc.SportSkillRadar(context.Background(), "ac1", DefaultTarget)
	assert.Equal(t, cause, errors.Cause(err))
}

func TestRecordAverage(t *testing.T) {
	avg, ok := RecordAverage(ratings("A", 8, "B", "7", "C", nil, "D", "junk"))
	assert.True(t, ok)
	assert.Equal(t, 7.5, avg)

	_, ok = RecordAverage(ratings("A", nil))
	assert.False(t, ok)

	_, ok = RecordAverage(nil)
	assert.False(t, ok)
}
