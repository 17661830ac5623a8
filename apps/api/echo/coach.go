package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type coachApi struct {
	coachSvc      *coach.Service
	playerSvc     *player.Service
	attendanceSvc *attendance.Service
	validate      *validator.Validate
}

func registerCoachAPI(g *echo.Group, deps ServerDeps) {
	api := coachApi{
		coachSvc:      deps.CoachSvc,
		playerSvc:     deps.PlayerSvc,
		attendanceSvc: deps.AttendanceSvc,
		validate:      deps.Validate,
	}

	g.GET("/profile", api.profile)
	g.GET("/players", api.queryPlayers)
	g.GET("/players/:id/performance", api.playerPerformance)
	g.POST("/attendance", api.markAttendance)
	g.GET("/attendance/:date", api.attendanceByDate)
}

// Handlers

func (api *coachApi) profile(ctx echo.Context) error {
	b, err := getContextBinding(ctx)
	if err != nil {
		return err
	}
	c, err := api.coachSvc.Get(ctx.Request().Context(), b.AcademyID, b.CoachID)
	if err != nil {
		return errors.Wrap(err, "fetching coach profile")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *coachApi) queryPlayers(ctx echo.Context) error {
	b, err := getContextBinding(ctx)
	if err != nil {
		return err
	}
	players, err := api.playerSvc.Query(ctx.Request().Context(), player.Filter{AcademyID: b.AcademyID, CoachID: b.CoachID})
	if err != nil {
		return errors.Wrap(err, "querying assigned players")
	}
	return ctx.JSON(http.StatusOK, players)
}

func (api *coachApi) playerPerformance(ctx echo.Context) error {
	b, err := getContextBinding(ctx)
	if err != nil {
		return err
	}
	p, err := api.playerSvc.Get(ctx.Request().Context(), b.AcademyID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching player")
	}
	if p.CoachID != b.CoachID {
		return player.ErrNotFound
	}
	perf, err := api.attendanceSvc.Performance(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "computing player performance")
	}
	return ctx.JSON(http.StatusOK, perf)
}

func (api *coachApi) markAttendance(ctx echo.Context) error {
	var data attendance.MarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to attendance.MarkRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	b, err := getContextBinding(ctx)
	if err != nil {
		return err
	}
	res, err := api.attendanceSvc.Mark(ctx.Request().Context(), b.AcademyID, b.Subject, b.CoachID, data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *coachApi) attendanceByDate(ctx echo.Context) error {
	date, err := dateParam(ctx)
	if err != nil {
		return err
	}
	b, err := getContextBinding(ctx)
	if err != nil {
		return err
	}
	day, err := api.attendanceSvc.ByDate(ctx.Request().Context(), b.AcademyID, date, b.CoachID)
	if err != nil {
		return errors.Wrap(err, "fetching attendance")
	}
	return ctx.JSON(http.StatusOK, day)
}
