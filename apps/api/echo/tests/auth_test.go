package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Arun270647/tma-demo-repo/apps/api/echo"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	testutil "github.com/Arun270647/tma-demo-repo/tests"
)

func strPtr(s string) *string { return &s }

func Test_roleGating(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "owner-1")
	env.CreateCoach(t, a.ID, "Carl", "coach-1")
	env.CreatePlayer(t, a.ID, "Pam", "Football", "", "player-1")

	owner := testutil.Token(t, env.Conf, "owner-1", "owner@alpha.test")
	coach := testutil.Token(t, env.Conf, "coach-1", "carl@alpha.test")
	player := testutil.Token(t, env.Conf, "player-1", "pam@alpha.test")
	admin := testutil.Token(t, env.Conf, "admin-1", superAdminEmail)
	nobody := testutil.Token(t, env.Conf, "nobody", "nobody@test.cd")

	tests := []httpTest{
		{name: "no token", path: "/api/academy", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{name: "bad token", path: "/api/academy", token: "not-a-jwt", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{
			name: "wrong secret", path: "/api/academy", wantCode: http.StatusUnauthorized,
			token: func() string {
				conf := *env.Conf
				conf.Auth.JWTSecret = "another-secret"
				return testutil.Token(t, &conf, "owner-1", "owner@alpha.test")
			}(),
			wantData: marchallObj(t, errNotAuthenticated),
		},
		{name: "unbound identity", path: "/api/academy", token: nobody, wantCode: http.StatusForbidden, wantData: marchallObj(t, errNoRole)},
		{name: "owner on academy api", path: "/api/academy", token: owner, wantCode: http.StatusOK},
		{name: "coach on academy api", path: "/api/academy", token: coach, wantCode: http.StatusForbidden, wantData: marchallObj(t, errNoRole)},
		{name: "player on academy api", path: "/api/academy", token: player, wantCode: http.StatusForbidden, wantData: marchallObj(t, errNoRole)},
		{name: "admin on academy api", path: "/api/academy", token: admin, wantCode: http.StatusForbidden, wantData: marchallObj(t, errNoRole)},
		{name: "coach on coach api", path: "/api/coach/profile", token: coach, wantCode: http.StatusOK},
		{name: "owner on coach api", path: "/api/coach/profile", token: owner, wantCode: http.StatusForbidden},
		{name: "player on player api", path: "/api/player/profile", token: player, wantCode: http.StatusOK},
		{name: "coach on player api", path: "/api/player/profile", token: coach, wantCode: http.StatusForbidden},
		{name: "admin on admin api", path: "/api/admin/academies", token: admin, wantCode: http.StatusOK},
		{name: "owner on admin api", path: "/api/admin/academies", token: owner, wantCode: http.StatusForbidden, wantData: marchallObj(t, errNoRole)},
		{name: "no token on admin api", path: "/api/admin/academies", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
	}
	runHTTPTests(t, app, tests)
}

func Test_publicApi_authUser(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "owner-1")
	c := env.CreateCoach(t, a.ID, "Carl", "coach-1")
	p := env.CreatePlayer(t, a.ID, "Pam", "Football", c.ID, "player-1")
	// bound as both coach and player: the coach role wins
	env.CreateCoach(t, a.ID, "Dual", "dual-1")
	env.CreatePlayer(t, a.ID, "Dual", "Football", "", "dual-1")

	roleResp := func(subject, email string, info echoapi.RoleInfo) []byte {
		return marchallObj(t, echoapi.UserResponse{
			User:    &echoapi.AuthUser{ID: subject, Email: email, RoleInfo: &info},
			Role:    strPtr(info.Role),
			Message: "User retrieved successfully",
		})
	}

	tests := []httpTest{
		{
			name: "anonymous", path: "/api/auth/user", wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.UserResponse{Message: "No authenticated user"}),
		},
		{
			name: "invalid token", path: "/api/auth/user", token: "garbage", wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.UserResponse{Message: "No authenticated user"}),
		},
		{
			name: "unbound", path: "/api/auth/user", token: testutil.Token(t, env.Conf, "nobody", "nobody@test.cd"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.UserResponse{
				User:    &echoapi.AuthUser{ID: "nobody", Email: "nobody@test.cd"},
				Message: "No role associated with this identity",
			}),
		},
		{
			name: "super admin", path: "/api/auth/user", token: testutil.Token(t, env.Conf, "admin-1", "Admin@TrackMyAcademy.com"),
			wantCode: http.StatusOK,
			wantData: roleResp("admin-1", "Admin@TrackMyAcademy.com", echoapi.RoleInfo{
				Role:        identity.RoleSuperAdmin,
				Permissions: []string{"manage_all_academies", "view_all_data", "create_academies", "manage_billing"},
			}),
		},
		{
			name: "academy owner", path: "/api/auth/user", token: testutil.Token(t, env.Conf, "owner-1", "owner@alpha.test"),
			wantCode: http.StatusOK,
			wantData: roleResp("owner-1", "owner@alpha.test", echoapi.RoleInfo{
				Role:        identity.RoleAcademyOwner,
				AcademyID:   strPtr(a.ID),
				AcademyName: strPtr("Alpha"),
				Permissions: []string{"manage_own_academy", "create_coaches", "view_own_data"},
			}),
		},
		{
			name: "coach", path: "/api/auth/user", token: testutil.Token(t, env.Conf, "coach-1", "carl@alpha.test"),
			wantCode: http.StatusOK,
			wantData: roleResp("coach-1", "carl@alpha.test", echoapi.RoleInfo{
				Role:        identity.RoleCoach,
				AcademyID:   strPtr(a.ID),
				CoachID:     c.ID,
				Permissions: []string{"view_assigned_players", "mark_attendance", "add_performance"},
			}),
		},
		{
			name: "player", path: "/api/auth/user", token: testutil.Token(t, env.Conf, "player-1", "pam@alpha.test"),
			wantCode: http.StatusOK,
			wantData: roleResp("player-1", "pam@alpha.test", echoapi.RoleInfo{
				Role:        identity.RolePlayer,
				AcademyID:   strPtr(a.ID),
				PlayerID:    p.ID,
				Permissions: []string{"view_own_data", "view_attendance", "view_performance"},
			}),
		},
		{
			name: "coach and player", path: "/api/auth/user", token: testutil.Token(t, env.Conf, "dual-1", "dual@alpha.test"),
			wantCode: http.StatusOK,
			wantData: roleResp("dual-1", "dual@alpha.test", echoapi.RoleInfo{
				Role:        identity.RoleCoach,
				AcademyID:   strPtr(a.ID),
				CoachID:     "Dual-" + a.ID,
				Permissions: []string{"view_assigned_players", "mark_attendance", "add_performance"},
			}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_storedBindingWins(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "")
	c := env.CreateCoach(t, a.ID, "Carl", "")
	// the player document references the subject, but the stored binding says coach
	env.CreatePlayer(t, a.ID, "Pam", "Football", "", "subject-1")

	admin := testutil.Token(t, env.Conf, "admin-1", superAdminEmail)
	var b identity.Binding
	code := do(t, app, http.MethodPost, "/api/admin/role-bindings", admin, identity.NewBinding{
		Subject:   "subject-1",
		Role:      identity.RoleCoach,
		AcademyID: a.ID,
		CoachID:   c.ID,
	}, &b)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, identity.RoleCoach, b.Role)

	tkn := testutil.Token(t, env.Conf, "subject-1", "s1@alpha.test")
	var prof map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/coach/profile", tkn, nil, &prof))
	assert.Equal(t, c.ID, prof["id"])
	assert.Equal(t, http.StatusForbidden, do(t, app, http.MethodGet, "/api/player/profile", tkn, nil, nil))

	// a second binding for the same subject is rejected
	code = do(t, app, http.MethodPost, "/api/admin/role-bindings", admin, identity.NewBinding{
		Subject:   "subject-1",
		Role:      identity.RoleAcademyOwner,
		AcademyID: a.ID,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// once unbound, the document scan applies again
	require.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, "/api/admin/role-bindings/subject-1", admin, nil, nil))
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/player/profile", tkn, nil, nil))
}

func Test_metricsEndpoint(t *testing.T) {
	app, env := setup(t)
	env.CreateAcademy(t, "Alpha", "owner-1")

	req, rec := newRequest(http.MethodGet, "/api/academy")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req, rec = newRequest(http.MethodGet, "/metrics")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `tma_api_http_requests_total{method="GET",route="/api/academy",status_code="401"} 1`)
	assert.Contains(t, body, `tma_api_identity_resolutions_total{outcome="unauthenticated",role="academy_user"} 1`)
}
