package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/demo"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	"github.com/Arun270647/tma-demo-repo/services/ratelimit"
)

var (
	superAdminPermissions   = []string{"manage_all_academies", "view_all_data", "create_academies", "manage_billing"}
	academyOwnerPermissions = []string{"manage_own_academy", "create_coaches", "view_own_data"}
	coachPermissions        = []string{"view_assigned_players", "mark_attendance", "add_performance"}
	playerPermissions       = []string{"view_own_data", "view_attendance", "view_performance"}
)

type (
	SportConfigResponse struct {
		Sports                map[string][]string `json:"sports"`
		PerformanceCategories map[string][]string `json:"performance_categories"`
		IndividualSports      []string            `json:"individual_sports"`
		TeamSports            []string            `json:"team_sports"`
		TrainingDays          []string            `json:"training_days"`
		TrainingBatches       []string            `json:"training_batches"`
	}

	RoleInfo struct {
		Role        string   `json:"role"`
		AcademyID   *string  `json:"academy_id"`
		AcademyName *string  `json:"academy_name"`
		CoachID     string   `json:"coach_id,omitempty"`
		PlayerID    string   `json:"player_id,omitempty"`
		Permissions []string `json:"permissions"`
	}

	AuthUser struct {
		ID       string    `json:"id"`
		Email    string    `json:"email"`
		RoleInfo *RoleInfo `json:"role_info"`
	}

	UserResponse struct {
		User    *AuthUser `json:"user"`
		Role    *string   `json:"role"`
		Message string    `json:"message"`
	}
)

type publicApi struct {
	auth        *authenticator
	resolver    *identity.Resolver
	academySvc  *academy.Service
	demoSvc     *demo.Service
	limiter     ratelimit.Limiter
	logger      core.Logger
	validate    *validator.Validate
	appName     string
	environment string
}

func registerPublicAPI(g *echo.Group, auth *authenticator, deps ServerDeps) {
	api := publicApi{
		auth:        auth,
		resolver:    deps.Resolver,
		academySvc:  deps.AcademySvc,
		demoSvc:     deps.DemoSvc,
		limiter:     deps.Limiter,
		logger:      deps.Logger,
		validate:    deps.Validate,
		appName:     deps.Conf.AppName,
		environment: deps.Conf.Env,
	}

	g.GET("", api.home)
	g.GET("/health", api.health)
	g.GET("/sports/config", api.sportsConfig)
	g.GET("/sports/positions", api.sportsConfig)
	g.POST("/demo-requests", api.createDemoRequest)
	g.GET("/auth/user", api.authUser)
}

// Handlers

func (api *publicApi) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Welcome to " + api.appName + " API!"})
}

func (api *publicApi) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "healthy", "environment": api.environment})
}

func (api *publicApi) sportsConfig(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SportConfigResponse{
		Sports:                core.SportPositions,
		PerformanceCategories: core.SportCategories,
		IndividualSports:      core.IndividualSports,
		TeamSports:            core.TeamSports,
		TrainingDays:          core.TrainingDays,
		TrainingBatches:       core.TrainingBatches,
	})
}

func (api *publicApi) createDemoRequest(ctx echo.Context) error {
	allowed, err := api.limiter.Allow(ctx.Request().Context(), "demo_request:"+ctx.RealIP())
	if err != nil {
		// fail open
		api.logger.Error("rate limiting demo request", errors.Wrap(err, "limiter"))
	} else if !allowed {
		return errTooManyRequests
	}

	var data demo.NewRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to demo.NewRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	var requestedBy string
	if idt := api.auth.optionalIdentity(ctx); idt != nil {
		requestedBy = idt.Subject
	}
	req, err := api.demoSvc.Create(ctx.Request().Context(), data, requestedBy)
	if err != nil {
		return errors.Wrap(err, "creating demo request")
	}

	api.logger.Info("demo request created", map[string]interface{}{"id": req.ID, "academy_name": req.AcademyName})
	return ctx.JSON(http.StatusCreated, req)
}

func (api *publicApi) authUser(ctx echo.Context) error {
	c := ctx.Request().Context()

	idt := api.auth.optionalIdentity(ctx)
	if idt == nil {
		return ctx.JSON(http.StatusOK, UserResponse{Message: "No authenticated user"})
	}
	usr := &AuthUser{ID: idt.Subject, Email: idt.Email}

	b, err := api.resolver.Resolve(c, bearerToken(ctx))
	if err != nil {
		if errors.Cause(err) == identity.ErrForbidden {
			return ctx.JSON(http.StatusOK, UserResponse{User: usr, Message: "No role associated with this identity"})
		}
		return err
	}
	ctx.Set(contextBindingKey, b)

	info := &RoleInfo{Role: b.Role, CoachID: b.CoachID, PlayerID: b.PlayerID}
	switch b.Role {
	case identity.RoleSuperAdmin:
		info.Permissions = superAdminPermissions
	case identity.RoleCoach:
		info.Permissions = coachPermissions
	case identity.RolePlayer:
		info.Permissions = playerPermissions
	case identity.RoleAcademyOwner:
		info.Permissions = academyOwnerPermissions
	}
	if b.AcademyID != "" {
		academyID := b.AcademyID
		info.AcademyID = &academyID
		if b.IsAcademyOwner() {
			a, err := api.academySvc.Get(c, b.AcademyID)
			if err != nil && errors.Cause(err) != academy.ErrNotFound {
				return errors.Wrap(err, "fetching academy")
			}
			if err == nil {
				info.AcademyName = &a.Name
			}
		}
	}
	usr.RoleInfo = info

	return ctx.JSON(http.StatusOK, UserResponse{User: usr, Role: &info.Role, Message: "User retrieved successfully"})
}
