package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

// academyApi serves the academy owner; every handler is scoped to the academy of the caller binding.
type academyApi struct {
	academySvc    *academy.Service
	playerSvc     *player.Service
	coachSvc      *coach.Service
	attendanceSvc *attendance.Service
	analyticsSvc  *analytics.Service
	feeSvc        *fee.Service
	logger        core.Logger
	validate      *validator.Validate
	defaultTarget float64
}

func registerAcademyAPI(g *echo.Group, owner echo.MiddlewareFunc, deps ServerDeps) {
	api := academyApi{
		academySvc:    deps.AcademySvc,
		playerSvc:     deps.PlayerSvc,
		coachSvc:      deps.CoachSvc,
		attendanceSvc: deps.AttendanceSvc,
		analyticsSvc:  deps.AnalyticsSvc,
		feeSvc:        deps.FeeSvc,
		logger:        deps.Logger,
		validate:      deps.Validate,
		defaultTarget: deps.Conf.Analytics.DefaultTarget,
	}

	og := g.Group("/academy", owner)
	og.GET("", api.retrieve)
	og.GET("/settings", api.retrieveSettings)
	og.PUT("/settings", api.updateSettings)
	og.GET("/stats", api.stats)

	pg := og.Group("/players")
	pg.GET("", api.queryPlayers)
	pg.POST("", api.createPlayer)
	pg.POST("/bulk-assign", api.bulkAssign)
	pg.PUT("/bulk-assign", api.bulkAssign)
	pg.GET("/:id", api.retrievePlayer)
	pg.PUT("/:id", api.updatePlayer)
	pg.DELETE("/:id", api.destroyPlayer)
	pg.GET("/:id/performance", api.playerPerformance)
	pg.GET("/:id/attendance", api.playerAttendance)
	pg.GET("/:id/fees", api.playerFees)
	pg.POST("/:id/fees", api.setFee)
	pg.POST("/:id/fees/remind", api.remindFee)

	cg := og.Group("/coaches")
	cg.GET("", api.queryCoaches)
	cg.POST("", api.createCoach)
	cg.GET("/:id", api.retrieveCoach)
	cg.PUT("/:id", api.updateCoach)
	cg.DELETE("/:id", api.destroyCoach)

	og.POST("/attendance", api.markAttendance)
	og.GET("/attendance/summary", api.attendanceSummary)
	og.GET("/attendance/:date", api.attendanceByDate)
	og.POST("/attendance/:date", api.attendanceByDate) // legacy

	og.GET("/fees", api.queryFees)
	og.PUT("/fees/:id/paid", api.markFeePaid)
	// legacy fee routes
	og.GET("/student-fees", api.queryFees)
	og.POST("/student-fees/:id", api.setFee)
	og.PUT("/student-fees/:id/mark-paid", api.markFeePaid)
	og.POST("/student-fees/:id/send-reminder", api.remindFee)

	og.GET("/analytics/skill-radar", api.skillRadar)
	og.GET("/analytics/sport-skill-radar", api.sportSkillRadar)
	// radar aliases
	og.GET("/skill-radar", api.skillRadar)
	og.GET("/sport-skill-radar", api.sportSkillRadar)
	og.GET("/analytics/sport-radar", api.sportSkillRadar)
	g.GET("/analytics/skill-radar", api.skillRadar, owner)
	g.GET("/analytics/sport-skill-radar", api.sportSkillRadar, owner)
}

func (api *academyApi) ownAcademy(ctx echo.Context) (academy.Academy, error) {
	b, err := getContextBinding(ctx)
	if err != nil {
		return academy.Academy{}, err
	}
	a, err := api.academySvc.Get(ctx.Request().Context(), b.AcademyID)
	return a, errors.Wrap(err, "fetching academy")
}

func academyID(ctx echo.Context) (string, error) {
	b, err := getContextBinding(ctx)
	if err != nil {
		return "", err
	}
	return b.AcademyID, nil
}

func callerSubject(ctx echo.Context) string {
	b, _ := getContextBinding(ctx)
	return b.Subject
}

// checkCoach fails with coach.ErrNotFound unless the coach belongs to the academy.
func (api *academyApi) checkCoach(ctx echo.Context, academyID, coachID string) error {
	if coachID == "" {
		return nil
	}
	_, err := api.coachSvc.Get(ctx.Request().Context(), academyID, coachID)
	return err
}

// Academy handlers

func (api *academyApi) retrieve(ctx echo.Context) error {
	a, err := api.ownAcademy(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *academyApi) retrieveSettings(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	s, err := api.academySvc.GetSettings(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "fetching academy settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *academyApi) updateSettings(ctx echo.Context) error {
	var data academy.UpdateSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to academy.UpdateSettings")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.ownAcademy(ctx)
	if err != nil {
		return err
	}
	s, err := api.academySvc.UpdateSettings(ctx.Request().Context(), a.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating academy settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *academyApi) stats(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	stats, err := api.academySvc.Stats(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing academy stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

// Player handlers

func (api *academyApi) queryPlayers(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	filter := player.Filter{
		AcademyID: id,
		CoachID:   strings.TrimSpace(ctx.QueryParam("coach_id")),
		Status:    strings.TrimSpace(ctx.QueryParam("status")),
	}
	players, err := api.playerSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying players")
	}
	return ctx.JSON(http.StatusOK, players)
}

func (api *academyApi) createPlayer(ctx echo.Context) error {
	var data player.NewPlayer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to player.NewPlayer")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.ownAcademy(ctx)
	if err != nil {
		return err
	}
	if err = api.checkCoach(ctx, a.ID, data.CoachID); err != nil {
		return err
	}
	p, err := api.playerSvc.Create(ctx.Request().Context(), a.ID, a.PlayerLimit, data)
	if err != nil {
		return errors.Wrap(err, "creating player")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *academyApi) retrievePlayer(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	p, err := api.playerSvc.Get(ctx.Request().Context(), id, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching player")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *academyApi) updatePlayer(ctx echo.Context) error {
	var data player.UpdatePlayer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to player.UpdatePlayer")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	if data.CoachID.Valid {
		if err = api.checkCoach(ctx, id, data.CoachID.String); err != nil {
			return err
		}
	}
	p, err := api.playerSvc.Update(ctx.Request().Context(), id, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating player")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *academyApi) destroyPlayer(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	if err = api.playerSvc.Delete(ctx.Request().Context(), id, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting player")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Player deleted successfully"})
}

func (api *academyApi) bulkAssign(ctx echo.Context) error {
	var data player.BulkAssign
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to player.BulkAssign")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	if data.CoachID.Valid {
		if err = api.checkCoach(ctx, id, data.CoachID.String); err != nil {
			return err
		}
	}
	res, err := api.playerSvc.AssignCoach(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "assigning coach")
	}
	if len(res.MissingIDs) > 0 {
		api.logger.Warn("bulk assign: unknown player ids", map[string]interface{}{
			"academy_id": id,
			"missing":    len(res.MissingIDs),
		})
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academyApi) playerPerformance(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	p, err := api.playerSvc.Get(ctx.Request().Context(), id, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching player")
	}
	perf, err := api.attendanceSvc.Performance(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "computing player performance")
	}
	return ctx.JSON(http.StatusOK, perf)
}

func (api *academyApi) playerAttendance(ctx echo.Context) error {
	var dr DateRange
	if err := dr.Bind(ctx); err != nil {
		return err
	}
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	p, err := api.playerSvc.Get(ctx.Request().Context(), id, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching player")
	}
	records, err := api.attendanceSvc.History(ctx.Request().Context(), id, p.ID, dr.Start, dr.End)
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	return ctx.JSON(http.StatusOK, records)
}

// Coach handlers

func (api *academyApi) queryCoaches(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	coaches, err := api.coachSvc.Query(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying coaches")
	}
	return ctx.JSON(http.StatusOK, coaches)
}

func (api *academyApi) createCoach(ctx echo.Context) error {
	var data coach.NewCoach
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to coach.NewCoach")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.ownAcademy(ctx)
	if err != nil {
		return err
	}
	c, err := api.coachSvc.Create(ctx.Request().Context(), a.ID, a.CoachLimit, data)
	if err != nil {
		return errors.Wrap(err, "creating coach")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *academyApi) retrieveCoach(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	c, err := api.coachSvc.Get(ctx.Request().Context(), id, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching coach")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *academyApi) updateCoach(ctx echo.Context) error {
	var data coach.UpdateCoach
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to coach.UpdateCoach")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	c, err := api.coachSvc.Update(ctx.Request().Context(), id, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating coach")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *academyApi) destroyCoach(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	if err = api.coachSvc.Delete(ctx.Request().Context(), id, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting coach")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Coach deleted successfully"})
}

// Attendance handlers

func (api *academyApi) markAttendance(ctx echo.Context) error {
	var data attendance.MarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to attendance.MarkRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	res, err := api.attendanceSvc.Mark(ctx.Request().Context(), id, callerSubject(ctx), "", data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academyApi) attendanceByDate(ctx echo.Context) error {
	date, err := dateParam(ctx)
	if err != nil {
		return err
	}
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	day, err := api.attendanceSvc.ByDate(ctx.Request().Context(), id, date, "")
	if err != nil {
		return errors.Wrap(err, "fetching attendance")
	}
	return ctx.JSON(http.StatusOK, day)
}

func (api *academyApi) attendanceSummary(ctx echo.Context) error {
	var dr DateRange
	if err := dr.Bind(ctx); err != nil {
		return err
	}
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	summary, err := api.attendanceSvc.Summary(ctx.Request().Context(), id, dr.Start, dr.End)
	if err != nil {
		return errors.Wrap(err, "computing attendance summary")
	}
	return ctx.JSON(http.StatusOK, summary)
}

// Fee handlers

func (api *academyApi) queryFees(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	rows, err := api.feeSvc.QueryForAcademy(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *academyApi) playerFees(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	p, err := api.playerSvc.Get(ctx.Request().Context(), id, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching player")
	}
	fees, err := api.feeSvc.QueryForPlayer(ctx.Request().Context(), id, p.ID)
	if err != nil {
		return errors.Wrap(err, "querying player fees")
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *academyApi) setFee(ctx echo.Context) error {
	var data fee.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to fee.NewFee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	f, err := api.feeSvc.Set(ctx.Request().Context(), id, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "setting player fee")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *academyApi) markFeePaid(ctx echo.Context) error {
	var data fee.Payment
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to fee.Payment")
		}
	} else if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &data); err != nil {
		return errors.Wrap(err, "binding to fee.Payment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	f, err := api.feeSvc.MarkPaid(ctx.Request().Context(), id, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "marking fee paid")
	}
	return ctx.JSON(http.StatusOK, f)
}

// remindFee emails the player of the `:id` path param about their earliest unpaid fee.
func (api *academyApi) remindFee(ctx echo.Context) error {
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	res, err := api.feeSvc.Remind(ctx.Request().Context(), id, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "sending fee reminder")
	}
	return ctx.JSON(http.StatusOK, res)
}

// Analytics handlers

func (api *academyApi) target(ctx echo.Context) (Target, error) {
	var t Target
	def := api.defaultTarget
	if id, err := academyID(ctx); err == nil {
		if s, err := api.academySvc.GetSettings(ctx.Request().Context(), id); err == nil && s.DefaultTarget > 0 {
			def = s.DefaultTarget
		}
	}
	return t, t.Bind(ctx, def)
}

func (api *academyApi) skillRadar(ctx echo.Context) error {
	t, err := api.target(ctx)
	if err != nil {
		return err
	}
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	radar, err := api.analyticsSvc.SkillRadar(ctx.Request().Context(), id, t.Value)
	if err != nil {
		return errors.Wrap(err, "computing skill radar")
	}
	return ctx.JSON(http.StatusOK, radar)
}

func (api *academyApi) sportSkillRadar(ctx echo.Context) error {
	t, err := api.target(ctx)
	if err != nil {
		return err
	}
	id, err := academyID(ctx)
	if err != nil {
		return err
	}
	radar, err := api.analyticsSvc.SportSkillRadar(ctx.Request().Context(), id, t.Value)
	if err != nil {
		return errors.Wrap(err, "computing sport skill radar")
	}
	return ctx.JSON(http.StatusOK, radar)
}
