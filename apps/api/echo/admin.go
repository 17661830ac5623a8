package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/demo"
	"github.com/Arun270647/tma-demo-repo/core/identity"
)

const recentCount = 5

type (
	SystemStats struct {
		TotalAcademies      int `json:"total_academies"`
		ActiveAcademies     int `json:"active_academies"`
		PendingAcademies    int `json:"pending_academies"`
		TotalDemoRequests   int `json:"total_demo_requests"`
		PendingDemoRequests int `json:"pending_demo_requests"`
		RecentActivityCount int `json:"recent_activity_count"`
	}

	RecentActivity struct {
		ID          string    `json:"id"`
		Type        string    `json:"type"`
		Description string    `json:"description"`
		Timestamp   time.Time `json:"timestamp"`
		Status      string    `json:"status"`
	}

	RecentAcademy struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		OwnerName  string    `json:"owner_name"`
		Location   string    `json:"location"`
		SportsType string    `json:"sports_type"`
		Status     string    `json:"status"`
		CreatedAt  time.Time `json:"created_at"`
	}

	SystemOverview struct {
		Stats            SystemStats      `json:"stats"`
		RecentActivities []RecentActivity `json:"recent_activities"`
		RecentAcademies  []RecentAcademy  `json:"recent_academies"`
		ServerStatus     string           `json:"server_status"`
	}
)

type adminApi struct {
	bindingSvc *identity.Service
	academySvc *academy.Service
	demoSvc    *demo.Service
	validate   *validator.Validate
}

func registerAdminAPI(g *echo.Group, deps ServerDeps) {
	api := adminApi{
		bindingSvc: deps.BindingSvc,
		academySvc: deps.AcademySvc,
		demoSvc:    deps.DemoSvc,
		validate:   deps.Validate,
	}

	ag := g.Group("/academies")
	ag.GET("", api.queryAcademies)
	ag.POST("", api.createAcademy)
	ag.PUT("/:id", api.updateAcademy)
	ag.DELETE("/:id", api.deleteAcademy)

	bg := g.Group("/role-bindings")
	bg.GET("", api.queryBindings)
	bg.POST("", api.createBinding)
	bg.DELETE("/:subject", api.deleteBinding)

	dg := g.Group("/demo-requests")
	dg.GET("", api.queryDemoRequests)
	dg.PUT("/:id", api.updateDemoRequest)

	g.GET("/system-overview", api.systemOverview)
}

// Handlers

func (api *adminApi) queryAcademies(ctx echo.Context) error {
	academies, err := api.academySvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying academies")
	}
	return ctx.JSON(http.StatusOK, academies)
}

func (api *adminApi) createAcademy(ctx echo.Context) error {
	var data academy.NewAcademy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to academy.NewAcademy")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.academySvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating academy")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *adminApi) updateAcademy(ctx echo.Context) error {
	var data academy.UpdateAcademy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to academy.UpdateAcademy")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.academySvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating academy")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *adminApi) deleteAcademy(ctx echo.Context) error {
	if err := api.academySvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting academy")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Academy deleted successfully"})
}

func (api *adminApi) queryBindings(ctx echo.Context) error {
	bindings, err := api.bindingSvc.Query(ctx.Request().Context(), ctx.QueryParam("role"))
	if err != nil {
		return errors.Wrap(err, "querying role bindings")
	}
	return ctx.JSON(http.StatusOK, bindings)
}

func (api *adminApi) createBinding(ctx echo.Context) error {
	var data identity.NewBinding
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to identity.NewBinding")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	b, err := api.bindingSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating role binding")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *adminApi) deleteBinding(ctx echo.Context) error {
	if err := api.bindingSvc.Delete(ctx.Request().Context(), ctx.Param("subject")); err != nil {
		return errors.Wrap(err, "deleting role binding")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) queryDemoRequests(ctx echo.Context) error {
	var filter demo.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to demo.Filter")
	}
	if err := filter.Validate(api.validate); err != nil {
		return err
	}

	requests, err := api.demoSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying demo requests")
	}
	return ctx.JSON(http.StatusOK, requests)
}

func (api *adminApi) updateDemoRequest(ctx echo.Context) error {
	var data demo.UpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to demo.UpdateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	req, err := api.demoSvc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating demo request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *adminApi) systemOverview(ctx echo.Context) error {
	var (
		stats     SystemStats
		academies []academy.Academy
		requests  []demo.Request
	)

	g, c := errgroup.WithContext(ctx.Request().Context())
	countInto := func(dst *int, count func(context.Context, string) (int, error), status string) {
		g.Go(func() error {
			n, err := count(c, status)
			*dst = n
			return err
		})
	}
	countInto(&stats.TotalAcademies, api.academySvc.Count, "")
	countInto(&stats.ActiveAcademies, api.academySvc.Count, academy.StatusApproved)
	countInto(&stats.PendingAcademies, api.academySvc.Count, academy.StatusPending)
	countInto(&stats.TotalDemoRequests, api.demoSvc.Count, "")
	countInto(&stats.PendingDemoRequests, api.demoSvc.Count, demo.StatusPending)
	g.Go(func() (err error) {
		academies, err = api.academySvc.QueryAll(c)
		return err
	})
	g.Go(func() (err error) {
		requests, err = api.demoSvc.Query(c, demo.Filter{Limit: recentCount})
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "building system overview")
	}
	stats.RecentActivityCount = stats.TotalAcademies + stats.TotalDemoRequests

	if len(academies) > recentCount {
		academies = academies[:recentCount] // most recent first
	}

	overview := SystemOverview{
		Stats:            stats,
		RecentActivities: make([]RecentActivity, 0, len(academies)+len(requests)),
		RecentAcademies:  make([]RecentAcademy, 0, len(academies)),
		ServerStatus:     "healthy",
	}
	for _, a := range academies {
		status := "pending"
		if a.Status == academy.StatusApproved {
			status = "success"
		}
		overview.RecentActivities = append(overview.RecentActivities, RecentActivity{
			ID:          uuid.New().String(),
			Type:        "academy_created",
			Description: fmt.Sprintf("New academy registration: %s", a.Name),
			Timestamp:   a.CreatedAt,
			Status:      status,
		})
		overview.RecentAcademies = append(overview.RecentAcademies, RecentAcademy{
			ID:         a.ID,
			Name:       a.Name,
			OwnerName:  a.OwnerName,
			Location:   a.Location,
			SportsType: a.SportsType,
			Status:     a.Status,
			CreatedAt:  a.CreatedAt,
		})
	}
	for _, r := range requests {
		overview.RecentActivities = append(overview.RecentActivities, RecentActivity{
			ID:          uuid.New().String(),
			Type:        "demo_request",
			Description: fmt.Sprintf("Demo request from: %s", r.AcademyName),
			Timestamp:   r.CreatedAt,
			Status:      r.Status,
		})
	}
	sort.SliceStable(overview.RecentActivities, func(i, j int) bool {
		return overview.RecentActivities[i].Timestamp.After(overview.RecentActivities[j].Timestamp)
	})
	if len(overview.RecentActivities) > 2*recentCount {
		overview.RecentActivities = overview.RecentActivities[:2*recentCount]
	}

	return ctx.JSON(http.StatusOK, overview)
}
