package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arun270647/tma-demo-repo/core"
)

func ratings(kv ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func TestAggregate(t *testing.T) {
	cats := []string{"A", "B"}
	seven := 7

	tests := []struct {
		name    string
		records []Record
		want    Summary
	}{
		{
			name:    "no records",
			records: nil,
			want: Summary{
				Categories: []CategoryAverage{{Name: "A"}, {Name: "B"}},
			},
		},
		{
			name: "averages and counts",
			records: []Record{
				{Ratings: ratings("A", 8, "B", 6)},
				{Ratings: ratings("A", 6)},
			},
			want: Summary{
				Categories: []CategoryAverage{{Name: "A", Average: 7, Count: 2}, {Name: "B", Average: 6, Count: 1}},
				RatedCount: 2,
			},
		},
		{
			name: "all null ratings are not rated",
			records: []Record{
				{Ratings: ratings("A", nil, "B", nil)},
				{Ratings: nil},
				{Ratings: ratings("A", (*int)(nil))},
			},
			want: Summary{
				Categories: []CategoryAverage{{Name: "A"}, {Name: "B"}},
			},
		},
		{
			name: "non-coercible values are skipped but still rated",
			records: []Record{
				{Ratings: ratings("A", "lol")},
				{Ratings: ratings("A", []int{1}, "B", map[string]int{"x": 1})},
				{Ratings: ratings("A", " 9 ", "B", true)},
			},
			want: Summary{
				Categories: []CategoryAverage{{Name: "A", Average: 9, Count: 1}, {Name: "B", Average: 1, Count: 1}},
				RatedCount: 3,
			},
		},
		{
			name: "mixed numeric types",
			records: []Record{
				{Ratings: ratings("A", int32(7), "B", 7.5)},
				{Ratings: ratings("A", int64(8), "B", json.Number("8"))},
				{Ratings: ratings("A", &seven, "B", float32(9))},
			},
			want: Summary{
				Categories: []CategoryAverage{{Name: "A", Average: 7.33, Count: 3}, {Name: "B", Average: 8.17, Count: 3}},
				RatedCount: 3,
			},
		},
		{
			name: "unknown categories are ignored and out of range values averaged",
			records: []Record{
				{Ratings: ratings("Z", 5)},
				{Ratings: ratings("A", 15, "B", -1)},
				{Ratings: ratings("A", 0)},
			},
			want: Summary{
				Categories: []CategoryAverage{{Name: "A", Average: 7.5, Count: 2}, {Name: "B", Average: -1, Count: 1}},
				RatedCount: 3,
			},
		},
		{
			name: "exact halves round to even",
			records: []Record{
				{Ratings: ratings("A", 8, "B", 1)}, {Ratings: ratings("A", 8, "B", 1)},
				{Ratings: ratings("A", 8, "B", 1)}, {Ratings: ratings("A", 8, "B", 1)},
				{Ratings: ratings("A", 8, "B", 1)}, {Ratings: ratings("A", 8, "B", 1)},
				{Ratings: ratings("A", 8, "B", 1)}, {Ratings: ratings("A", 5, "B", 2)},
			},
			want: Summary{
				Categories: []CategoryAverage{{Name: "A", Average: 7.62, Count: 8}, {Name: "B", Average: 1.12, Count: 8}},
				RatedCount: 8,
			},
		},
		{
			name: "non finite values are skipped",
			records: []Record{
				{Ratings: ratings("A", "NaN", "B", "inf")},
				{Ratings: ratings("A", 4)},
			},
			want: Summary{
				Categories: []CategoryAverage{{Name: "A", Average: 4, Count: 1}, {Name: "B"}},
				RatedCount: 2,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.records, cats))
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 7.625, want: 7.62},
		{in: 7.875, want: 7.88},
		{in: 1.125, want: 1.12},
		{in: 2.675, want: 2.67},
		{in: 7.333333, want: 7.33},
		{in: 8.166666, want: 8.17},
		{in: -1.125, want: -1.12},
		{in: 6, want: 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestAggregate_wireFormat(t *testing.T) {
	got, err := json.Marshal(Aggregate(nil, []string{"A", "B"}))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"categories":[{"name":"A","average":0,"count":0},{"name":"B","average":0,"count":0}],"rated_count":0}`,
		string(got),
	)
}

func TestAggregate_idempotent(t *testing.T) {
	records := []Record{
		{Ratings: ratings("A", 8, "B", 6, "C", "7.25")},
		{Ratings: ratings("A", 6, "B", nil)},
		{Ratings: ratings("A", 9.99)},
	}
	cats := []string{"A", "B", "C"}

	first := Aggregate(records, cats)
	second := Aggregate(records, cats)
	assert.Equal(t, first, second)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestAggregateBySport(t *testing.T) {
	records := []Record{
		{Sport: "Tennis", Ratings: ratings("Technical Skills", 8, "Consistency", 6)},
		{Sport: "", Ratings: ratings("Technical Skills", 5)},
		{Sport: "Football", Ratings: ratings("Teamwork", 10, "Technical Skills", 7)},
		{Sport: "Football", Ratings: ratings("Teamwork", 8)},
		{Sport: "Football", Ratings: nil},
		{Sport: "Quidditch", Ratings: ratings("Training Attitude", 9)},
	}

	got := AggregateBySport(records)
	require.Len(t, got, 4)

	sports := make([]string, 0, len(got))
	for _, s := range got {
		sports = append(sports, s.Sport)
	}
	assert.Equal(t, []string{"Football", "Other", "Quidditch", "Tennis"}, sports)

	football := got[0]
	assert.Equal(t, 3, football.SampleSize)
	assert.Equal(t, 2, football.RatedCount)
	assert.Equal(t, core.SportCategories["Football"][0], football.Categories[0].Name)
	assert.Equal(t, CategoryAverage{Name: "Technical Skills", Average: 7, Count: 1}, football.Categories[0])
	assert.Equal(t, CategoryAverage{Name: "Teamwork", Average: 9, Count: 2}, football.Categories[4])
	assert.Equal(t, 3.2, football.OverallAverage) // (7 + 0 + 0 + 0 + 9) / 5

	other := got[1]
	assert.Equal(t, 1, other.SampleSize)
	assert.Equal(t, 1, other.RatedCount)
	assert.Len(t, other.Categories, len(core.SportCategories[core.OtherSport]))
	assert.Equal(t, 1.0, other.OverallAverage)

	// unknown sports keep their name but use the default categories
	quidditch := got[2]
	names := make([]string, 0, len(quidditch.Categories))
	for _, c := range quidditch.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, core.SportCategories[core.OtherSport], names)
	assert.Equal(t, 1.8, quidditch.OverallAverage)

	tennis := got[3]
	assert.Equal(t, 2.8, tennis.OverallAverage) // (8 + 6) / 5
}

func TestAggregateBySport_empty(t *testing.T) {
	got := AggregateBySport(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClassify(t *testing.T) {
	cats := []CategoryAverage{
		{Name: "exact target", Average: 8},
		{Name: "just below floor", Average: 6.9},
		{Name: "floor", Average: 7},
		{Name: "above", Average: 9.5},
		{Name: "empty", Average: 0},
	}

	strengths, weaknesses := Classify(cats, DefaultTarget)
	assert.Equal(t, []string{"exact target", "above"}, strengths)
	assert.Equal(t, []string{"just below floor", "empty"}, weaknesses)

	// the weakness floor never goes below 0
	strengths, weaknesses = Classify(cats, 0.5)
	assert.Len(t, strengths, 4)
	assert.Empty(t, weaknesses)
	assert.NotNil(t, weaknesses)

	strengths, weaknesses = Classify(nil, DefaultTarget)
	assert.NotNil(t, strengths)
	assert.NotNil(t, weaknesses)
}
