package echoapi

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Arun270647/tma-demo-repo/core"
)

var (
	targetParam    = "target"
	startDateParam = "start_date"
	endDateParam   = "end_date"
)

// Target is the radar target rating of the `target` query param.
type Target struct {
	Value float64
}

// Bind keeps `def` unless the param is a finite number within [0, 10].
func (t *Target) Bind(ctx echo.Context, def float64) error {
	t.Value = def
	val := strings.TrimSpace(ctx.QueryParam(targetParam))
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > 10 {
		return core.NewValidationError(nil, core.FieldError{Field: targetParam, Error: "target must be a number between 0 and 10"})
	}
	t.Value = f
	return nil
}

// DateRange is the inclusive `start_date`..`end_date` query range; both ends are optional.
type DateRange struct {
	Start string
	End   string
}

func (dr *DateRange) Bind(ctx echo.Context) error {
	dr.Start = strings.TrimSpace(ctx.QueryParam(startDateParam))
	dr.End = strings.TrimSpace(ctx.QueryParam(endDateParam))

	var fldErrs []core.FieldError
	for _, p := range []struct{ name, val string }{{startDateParam, dr.Start}, {endDateParam, dr.End}} {
		if p.val == "" {
			continue
		}
		if _, err := time.Parse(core.DateLayout, p.val); err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: p.name, Error: "date must be formatted as YYYY-MM-DD"})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

// dateParam returns the `date` path param once checked to be a YYYY-MM-DD date.
func dateParam(ctx echo.Context) (string, error) {
	date := strings.TrimSpace(ctx.Param("date"))
	if _, err := time.Parse(core.DateLayout, date); err != nil {
		return "", core.NewValidationError(nil, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD"})
	}
	return date, nil
}
