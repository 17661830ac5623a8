package attendance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arun270647/tma-demo-repo/core/attendance"
	testutil "github.com/Arun270647/tma-demo-repo/tests"
)

func intPtr(i int) *int { return &i }

func TestService_Mark(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.CreateAcademy(t, "Alpha", "")
	b := env.CreateAcademy(t, "Beta", "")
	c := env.CreateCoach(t, a.ID, "Carl", "")
	mine := env.CreatePlayer(t, a.ID, "Ann", "Tennis", c.ID, "")
	theirs := env.CreatePlayer(t, a.ID, "Ben", "", "", "")
	foreign := env.CreatePlayer(t, b.ID, "Zed", "Football", "", "")

	mr := attendance.MarkRequest{
		Date: "2024-05-06",
		AttendanceRecords: []attendance.Entry{
			{PlayerID: mine.ID, Present: true, PerformanceRatings: map[string]*int{"Consistency": intPtr(7), "Match Strategy": nil}},
			{PlayerID: theirs.ID, Date: "2024-05-05"},
			{PlayerID: foreign.ID, Present: true},
			{PlayerID: "nope", Present: true},
		},
	}
	res, err := env.AttendanceSvc.Mark(ctx, a.ID, "owner-1", "", mr)
	require.NoError(t, err)
	assert.Equal(t, attendance.MarkResponse{
		Message: "Attendance marked successfully",
		Results: []attendance.MarkResult{
			{PlayerID: mine.ID, Status: attendance.Created},
			{PlayerID: theirs.ID, Status: attendance.Created},
		},
	}, res)

	rec, err := env.AttRepo.GetRecord(ctx, a.ID, mine.ID, "2024-05-06")
	require.NoError(t, err)
	assert.Equal(t, "Tennis", rec.Sport)
	assert.Equal(t, "owner-1", rec.MarkedBy)
	assert.Equal(t, map[string]interface{}{"Consistency": 7, "Match Strategy": nil}, rec.PerformanceRatings)
	firstID := rec.ID

	// sport falls back to Other, and the entry date wins over the request date
	rec, err = env.AttRepo.GetRecord(ctx, a.ID, theirs.ID, "2024-05-05")
	require.NoError(t, err)
	assert.Equal(t, "Other", rec.Sport)
	assert.False(t, rec.Present)

	// marking again updates the record in place; coaches only mark their players
	mr.AttendanceRecords[0].Present = false
	res, err = env.AttendanceSvc.Mark(ctx, a.ID, "coach-1", c.ID, mr)
	require.NoError(t, err)
	assert.Equal(t, []attendance.MarkResult{{PlayerID: mine.ID, Status: attendance.Updated}}, res.Results)

	updated, err := env.AttRepo.GetRecord(ctx, a.ID, mine.ID, "2024-05-06")
	require.NoError(t, err)
	assert.Equal(t, firstID, updated.ID)
	assert.False(t, updated.Present)
	assert.Equal(t, "coach-1", updated.MarkedBy)

	day, err := env.AttendanceSvc.ByDate(ctx, a.ID, "2024-05-06", "")
	require.NoError(t, err)
	require.Len(t, day.AttendanceRecords, 1)
	assert.Equal(t, "Ann Test", day.AttendanceRecords[0].PlayerName)
	assert.Equal(t, updated.ID, day.AttendanceRecords[0].AttendanceID)
}

func TestService_Summary(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.CreateAcademy(t, "Alpha", "")
	p := env.CreatePlayer(t, a.ID, "Ann", "Football", "", "")
	q := env.CreatePlayer(t, a.ID, "Ben", "Football", "", "")

	env.Rate(t, p, "2024-01-10", map[string]interface{}{"Teamwork": 6, "Technical Skills": 8})
	env.Rate(t, q, "2024-01-10", map[string]interface{}{"Teamwork": 9})
	env.Rate(t, p, "2024-03-01", map[string]interface{}{})
	_, err := env.AttendanceSvc.Mark(ctx, a.ID, "owner-1", "", attendance.MarkRequest{
		Date:              "2024-02-01",
		AttendanceRecords: []attendance.Entry{{PlayerID: q.ID}},
	})
	require.NoError(t, err)

	s, err := env.AttendanceSvc.Summary(ctx, a.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalRecords)
	assert.Equal(t, 3, s.PresentRecords)
	assert.Equal(t, 75.0, s.OverallAttendanceRate)
	assert.Equal(t, 2, s.TotalRatedRecords)
	require.NotNil(t, s.AverageRating)
	assert.Equal(t, 8.0, *s.AverageRating)
	assert.Nil(t, s.DateRange.Start)

	s, err = env.AttendanceSvc.Summary(ctx, a.ID, "2024-02-01", "2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalRecords)
	assert.Equal(t, 0.0, s.OverallAttendanceRate)
	assert.Nil(t, s.AverageRating)
	require.NotNil(t, s.DateRange.Start)
	assert.Equal(t, "2024-02-01", *s.DateRange.Start)

	s, err = env.AttendanceSvc.Summary(ctx, a.ID, "2030-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, 0, s.TotalRecords)
	assert.Equal(t, 0.0, s.OverallAttendanceRate)
}

func TestService_Performance(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.CreateAcademy(t, "Alpha", "")
	p := env.CreatePlayer(t, a.ID, "Ann", "Football", "", "")

	env.Rate(t, p, "2024-02-10", map[string]interface{}{"Teamwork": 7})
	env.Rate(t, p, "2024-01-10", map[string]interface{}{"Teamwork": 6, "Mental Strength": 9})
	_, err := env.AttendanceSvc.Mark(ctx, a.ID, "owner-1", "", attendance.MarkRequest{
		Date:              "2024-02-11",
		AttendanceRecords: []attendance.Entry{{PlayerID: p.ID, PerformanceRatings: map[string]*int{"Teamwork": intPtr(1)}}},
	})
	require.NoError(t, err)

	perf, err := env.AttendanceSvc.Performance(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 3, perf.TotalSessions)
	assert.Equal(t, 2, perf.AttendedSessions)
	assert.Equal(t, 66.67, perf.AttendancePercentage)
	require.NotNil(t, perf.AverageRating)
	assert.Equal(t, 7.25, *perf.AverageRating)

	// ratings of absent sessions are ignored; the trend is in date order
	require.Len(t, perf.PerformanceTrend, 2)
	assert.Equal(t, "2024-01-10", perf.PerformanceTrend[0].Date)
	assert.Equal(t, 7.5, perf.PerformanceTrend[0].Rating)

	feb := perf.MonthlyStats["2024-02"]
	assert.Equal(t, 2, feb.TotalSessions)
	assert.Equal(t, 1, feb.AttendedSessions)
	assert.Equal(t, 50.0, feb.AttendancePercentage)
	require.NotNil(t, feb.AverageRating)
	assert.Equal(t, 7.0, *feb.AverageRating)

	empty := env.CreatePlayer(t, a.ID, "Ben", "", "", "")
	perf, err = env.AttendanceSvc.Performance(ctx, empty)
	require.NoError(t, err)
	assert.Equal(t, "Other", perf.Sport)
	assert.Nil(t, perf.AverageRating)
	assert.Empty(t, perf.PerformanceTrend)
	assert.Empty(t, perf.MonthlyStats)
}

func TestMarkRequest_Validate(t *testing.T) {
	env := testutil.NewEnv(t)
	tests := []struct {
		name    string
		mr      attendance.MarkRequest
		wantErr bool
	}{
		{name: "valid", mr: attendance.MarkRequest{Date: " 2024-05-06 ", AttendanceRecords: []attendance.Entry{{PlayerID: "p", PerformanceRatings: map[string]*int{"a": intPtr(10), "b": nil}}}}},
		{name: "no date", mr: attendance.MarkRequest{}, wantErr: true},
		{name: "bad date", mr: attendance.MarkRequest{Date: "06-05-2024"}, wantErr: true},
		{name: "no player", mr: attendance.MarkRequest{Date: "2024-05-06", AttendanceRecords: []attendance.Entry{{PlayerID: " "}}}, wantErr: true},
		{name: "rating out of range", mr: attendance.MarkRequest{Date: "2024-05-06", AttendanceRecords: []attendance.Entry{{PlayerID: "p", PerformanceRatings: map[string]*int{"a": intPtr(11)}}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mr.Validate(env.Validate)
			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}
