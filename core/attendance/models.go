package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Record is the attendance of a player on a date, along with the ratings given for that session.
// PerformanceRatings holds whatever the store returns; only write requests are validated.
type Record struct {
	ID                 string                 `json:"id" bson:"_id"`
	PlayerID           string                 `json:"player_id" bson:"player_id"`
	AcademyID          string                 `json:"academy_id" bson:"academy_id"`
	Date               string                 `json:"date" bson:"date"` // YYYY-MM-DD
	Present            bool                   `json:"present" bson:"present"`
	Sport              string                 `json:"sport,omitempty" bson:"sport,omitempty"`
	PerformanceRatings map[string]interface{} `json:"performance_ratings" bson:"performance_ratings"`
	Notes              string                 `json:"notes,omitempty" bson:"notes,omitempty"`
	MarkedBy           string                 `json:"marked_by" bson:"marked_by"`
	CreatedAt          time.Time              `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt          time.Time              `json:"updated_at" bson:"updated_at"` // UTC
}

// Filter selects records; zero fields are ignored. From and To are inclusive dates.
type Filter struct {
	AcademyID string
	PlayerID  string
	PlayerIDs []string
	Date      string
	From      string
	To        string
	Present   *bool
}

// Entry is the attendance of one player in a MarkRequest.
type Entry struct {
	PlayerID           string          `json:"player_id" validate:"required"`
	Date               string          `json:"date" validate:"omitempty,isodate"`
	Present            bool            `json:"present"`
	Sport              string          `json:"sport"`
	PerformanceRatings map[string]*int `json:"performance_ratings" validate:"omitempty,rating"`
	Notes              string          `json:"notes"`
}

// MarkRequest marks the attendance of several players; entries without a date use Date.
type MarkRequest struct {
	Date              string  `json:"date" validate:"required,isodate"`
	AttendanceRecords []Entry `json:"attendance_records" validate:"dive"`
}

func (mr *MarkRequest) Validate(validate *validator.Validate) error {
	mr.Date = core.CleanString(mr.Date)
	for i := range mr.AttendanceRecords {
		e := &mr.AttendanceRecords[i]
		e.PlayerID = core.CleanString(e.PlayerID)
		e.Date = core.CleanString(e.Date)
		e.Sport = core.CleanString(e.Sport)
		e.Notes = core.CleanString(e.Notes)
	}
	return validate.Struct(mr)
}

// Statuses of a marked entry
const (
	Created = "created"
	Updated = "updated"
)

type MarkResult struct {
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
}

type MarkResponse struct {
	Message string       `json:"message"`
	Results []MarkResult `json:"results"`
}

type DayEntry struct {
	AttendanceID       string                 `json:"attendance_id"`
	PlayerID           string                 `json:"player_id"`
	PlayerName         string                 `json:"player_name"`
	Present            bool                   `json:"present"`
	PerformanceRatings map[string]interface{} `json:"performance_ratings"`
	Notes              string                 `json:"notes,omitempty"`
	MarkedAt           time.Time              `json:"marked_at"`
}

type Day struct {
	Date              string     `json:"date"`
	AttendanceRecords []DayEntry `json:"attendance_records"`
}

type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type Summary struct {
	DateRange             DateRange `json:"date_range"`
	TotalRecords          int       `json:"total_records"`
	PresentRecords        int       `json:"present_records"`
	OverallAttendanceRate float64   `json:"overall_attendance_rate"`
	AverageRating         *float64  `json:"average_performance_rating"`
	TotalRatedRecords     int       `json:"total_performance_ratings"`
}

type TrendPoint struct {
	Date    string                 `json:"date"`
	Rating  float64                `json:"rating"`
	Ratings map[string]interface{} `json:"ratings"`
	Notes   string                 `json:"notes"`
}

type MonthStats struct {
	TotalSessions        int      `json:"total_sessions"`
	AttendedSessions     int      `json:"attended_sessions"`
	AttendancePercentage float64  `json:"attendance_percentage"`
	AverageRating        *float64 `json:"average_rating"`
}

type Performance struct {
	PlayerID             string                `json:"player_id"`
	PlayerName           string                `json:"player_name"`
	Sport                string                `json:"sport"`
	TotalSessions        int                   `json:"total_sessions"`
	AttendedSessions     int                   `json:"attended_sessions"`
	AttendancePercentage float64               `json:"attendance_percentage"`
	AverageRating        *float64              `json:"average_rating"`
	PerformanceTrend     []TrendPoint          `json:"performance_trend"`
	MonthlyStats         map[string]MonthStats `json:"monthly_stats"`
}

func ratingsOf(in map[string]*int) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if v == nil {
			out[k] = nil
		} else {
			out[k] = *v
		}
	}
	return out
}
