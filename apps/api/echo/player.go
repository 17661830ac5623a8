package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

// playerApi serves the player's own records.
type playerApi struct {
	playerSvc     *player.Service
	attendanceSvc *attendance.Service
	feeSvc        *fee.Service
}

func registerPlayerAPI(g *echo.Group, deps ServerDeps) {
	api := playerApi{
		playerSvc:     deps.PlayerSvc,
		attendanceSvc: deps.AttendanceSvc,
		feeSvc:        deps.FeeSvc,
	}

	g.GET("/profile", api.profile)
	g.GET("/attendance", api.attendance)
	g.GET("/performance", api.performance)
	g.GET("/fees", api.fees)
	g.GET("/payment-history", api.fees)
}

func (api *playerApi) self(ctx echo.Context) (player.Player, error) {
	b, err := getContextBinding(ctx)
	if err != nil {
		return player.Player{}, err
	}
	p, err := api.playerSvc.Get(ctx.Request().Context(), b.AcademyID, b.PlayerID)
	return p, errors.Wrap(err, "fetching player profile")
}

// Handlers

func (api *playerApi) profile(ctx echo.Context) error {
	p, err := api.self(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *playerApi) attendance(ctx echo.Context) error {
	var dr DateRange
	if err := dr.Bind(ctx); err != nil {
		return err
	}
	p, err := api.self(ctx)
	if err != nil {
		return err
	}
	records, err := api.attendanceSvc.History(ctx.Request().Context(), p.AcademyID, p.ID, dr.Start, dr.End)
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *playerApi) performance(ctx echo.Context) error {
	p, err := api.self(ctx)
	if err != nil {
		return err
	}
	perf, err := api.attendanceSvc.Performance(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "computing performance")
	}
	return ctx.JSON(http.StatusOK, perf)
}

func (api *playerApi) fees(ctx echo.Context) error {
	p, err := api.self(ctx)
	if err != nil {
		return err
	}
	fees, err := api.feeSvc.QueryForPlayer(ctx.Request().Context(), p.AcademyID, p.ID)
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return ctx.JSON(http.StatusOK, fees)
}
