package analytics

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Arun270647/tma-demo-repo/core"
)

type (
	// Record is a rated attendance record.
	// Ratings values are whatever the store holds: numbers, numeric strings, nil or garbage.
	Record struct {
		Sport   string
		Ratings map[string]interface{}
	}

	CategoryAverage struct {
		Name    string  `json:"name"`
		Average float64 `json:"average"`
		Count   int     `json:"count"`
	}

	Summary struct {
		Categories []CategoryAverage `json:"categories"`
		RatedCount int               `json:"rated_count"`
	}

	SportSummary struct {
		Sport          string            `json:"sport"`
		Categories     []CategoryAverage `json:"categories"`
		OverallAverage float64           `json:"overall_average"`
		SampleSize     int               `json:"sample_size"`
		RatedCount     int               `json:"rated_count"`
	}
)

type tally struct {
	sums   map[string]float64
	counts map[string]int
	rated  int
	total  int
}

func newTally() *tally {
	return &tally{sums: make(map[string]float64), counts: make(map[string]int)}
}

func (t *tally) add(rec Record) {
	t.total++
	var rated bool
	for category, value := range rec.Ratings {
		if isNull(value) {
			continue
		}
		rated = true
		v, ok := toFloat(value)
		if !ok {
			continue
		}
		t.sums[category] += v
		t.counts[category]++
	}
	if rated {
		t.rated++
	}
}

func (t *tally) averages(categories []string) []CategoryAverage {
	res := make([]CategoryAverage, 0, len(categories))
	for _, name := range categories {
		var avg float64
		if n := t.counts[name]; n > 0 {
			avg = t.sums[name] / float64(n)
		}
		res = append(res, CategoryAverage{Name: name, Average: Round2(avg), Count: t.counts[name]})
	}
	return res
}

// Aggregate averages the ratings of `records` for each of `categories`, in that order.
// Categories without any rating are reported with a 0 average.
func Aggregate(records []Record, categories []string) Summary {
	t := newTally()
	for _, rec := range records {
		t.add(rec)
	}
	return Summary{Categories: t.averages(categories), RatedCount: t.rated}
}

// AggregateBySport partitions `records` by sport and aggregates each partition over
// the performance categories of its sport. The result is sorted by sport.
func AggregateBySport(records []Record) []SportSummary {
	tallies := make(map[string]*tally)
	for _, rec := range records {
		sport := rec.Sport
		if sport == "" {
			sport = core.OtherSport
		}
		t, ok := tallies[sport]
		if !ok {
			t = newTally()
			tallies[sport] = t
		}
		t.add(rec)
	}

	res := make([]SportSummary, 0, len(tallies))
	for sport, t := range tallies {
		cats := t.averages(core.CategoriesFor(sport))
		var overall float64
		if len(cats) > 0 {
			var sum float64
			for _, c := range cats {
				sum += c.Average
			}
			overall = Round2(sum / float64(len(cats)))
		}
		res = append(res, SportSummary{
			Sport:          sport,
			Categories:     cats,
			OverallAverage: overall,
			SampleSize:     t.total,
			RatedCount:     t.rated,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Sport < res[j].Sport })
	return res
}

// RecordAverage is the mean of the coercible ratings of a single record.
// It reports false when the record holds no usable rating.
func RecordAverage(ratings map[string]interface{}) (float64, bool) {
	var sum float64
	var n int
	for _, value := range ratings {
		if isNull(value) {
			continue
		}
		if v, ok := toFloat(value); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return Round2(sum / float64(n)), true
}

// Round2 rounds `f` to 2 decimal places. Ties round to even on the exact binary value,
// so 7.625 gives 7.62 and 2.675 (stored as 2.67499...) gives 2.67.
func Round2(f float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return v
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// toFloat coerces a rating value to a finite number.
// Numbers, numeric strings and booleans are accepted, anything else is not.
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case bool:
		if val {
			f = 1
		}
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = n
	case *int:
		f = float64(*val)
	case *float64:
		f = *val
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
