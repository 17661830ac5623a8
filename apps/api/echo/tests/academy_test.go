package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/player"
	testutil "github.com/Arun270647/tma-demo-repo/tests"
)

func Test_academyApi_players(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "owner-1", 2 /* players */, 1 /* coaches */)
	other := env.CreateAcademy(t, "Beta", "owner-2")
	foreign := env.CreatePlayer(t, other.ID, "Zed", "Football", "", "")
	owner := testutil.Token(t, env.Conf, "owner-1", "owner@alpha.test")

	newPlayer := map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"gender":     "Female",
		"sport":      "Football",
		"position":   "Striker",
	}

	var created player.Player
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/academy/players", owner, newPlayer, &created))
	assert.Equal(t, a.ID, created.AcademyID)
	assert.Equal(t, player.StatusActive, created.Status)
	require.NotNil(t, created.Position)
	assert.Equal(t, "Striker", *created.Position)

	tests := []httpTest{
		{
			name: "invalid position", method: http.MethodPost, path: "/api/academy/players", token: owner,
			body: marchallObj(t, map[string]interface{}{
				"first_name": "Bob", "last_name": "B", "gender": "Male", "sport": "Football", "position": "Pitcher",
			}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown sport", method: http.MethodPost, path: "/api/academy/players", token: owner,
			body: marchallObj(t, map[string]interface{}{
				"first_name": "Bob", "last_name": "B", "gender": "Male", "sport": "Quidditch",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"sport": "unknown sport"}),
		},
		{
			name: "unknown coach", method: http.MethodPost, path: "/api/academy/players", token: owner,
			body: marchallObj(t, map[string]interface{}{
				"first_name": "Bob", "last_name": "B", "gender": "Male", "sport": "Football", "coach_id": "nope",
			}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "Coach not found"}),
		},
		{name: "get", path: "/api/academy/players/" + created.ID, token: owner, wantCode: http.StatusOK, wantData: marchallObj(t, created)},
		{
			name: "other academy's player", path: "/api/academy/players/" + foreign.ID, token: owner,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Player not found"}),
		},
		{name: "list", path: "/api/academy/players", token: owner, wantCode: http.StatusOK, wantData: marchallObj(t, []player.Player{created})},
	}
	runHTTPTests(t, app, tests)

	// the second player fills the quota
	newPlayer["first_name"] = "Grace"
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/academy/players", owner, newPlayer, nil))
	newPlayer["first_name"] = "Linus"
	var limitErr httpErr
	require.Equal(t, http.StatusBadRequest, do(t, app, http.MethodPost, "/api/academy/players", owner, newPlayer, &limitErr))
	assert.Equal(t, "Academy has reached maximum player limit of 2", limitErr.Error)

	// inactive players do not count towards the quota
	var updated player.Player
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, "/api/academy/players/"+created.ID, owner,
		map[string]interface{}{"status": "inactive"}, &updated))
	assert.Equal(t, player.StatusInactive, updated.Status)
	assert.Equal(t, "Ada", updated.FirstName)
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/academy/players", owner, newPlayer, nil))

	var msg map[string]string
	require.Equal(t, http.StatusOK, do(t, app, http.MethodDelete, "/api/academy/players/"+created.ID, owner, nil, &msg))
	assert.Equal(t, "Player deleted successfully", msg["message"])
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/academy/players/"+created.ID, owner, nil, nil))
}

func Test_academyApi_coachesAndBulkAssign(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "owner-1", 10, 1)
	p1 := env.CreatePlayer(t, a.ID, "Ann", "Football", "", "")
	p2 := env.CreatePlayer(t, a.ID, "Ben", "Football", "", "")
	owner := testutil.Token(t, env.Conf, "owner-1", "owner@alpha.test")

	var c map[string]interface{}
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/academy/coaches", owner,
		map[string]interface{}{"first_name": "Carl", "last_name": "Coach", "sports": []string{"Football"}}, &c))
	coachID, _ := c["id"].(string)
	require.NotEmpty(t, coachID)

	var limitErr httpErr
	require.Equal(t, http.StatusBadRequest, do(t, app, http.MethodPost, "/api/academy/coaches", owner,
		map[string]interface{}{"first_name": "Dan", "last_name": "Coach"}, &limitErr))
	assert.Equal(t, "Academy has reached maximum coach limit of 1", limitErr.Error)

	var res player.AssignResult
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, "/api/academy/players/bulk-assign", owner,
		map[string]interface{}{"player_ids": []string{p1.ID, p2.ID, "ghost"}, "coach_id": coachID}, &res))
	assert.Equal(t, 2, res.MatchedCount)
	assert.Equal(t, 2, res.ModifiedCount)
	assert.Equal(t, []string{"ghost"}, res.MissingIDs)

	var assigned []player.Player
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/academy/players?coach_id="+coachID, owner, nil, &assigned))
	assert.Len(t, assigned, 2)

	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodPut, "/api/academy/players/bulk-assign", owner,
		map[string]interface{}{"player_ids": []string{p1.ID}, "coach_id": "nope"}, nil))

	// deleting the coach unassigns their players
	require.Equal(t, http.StatusOK, do(t, app, http.MethodDelete, "/api/academy/coaches/"+coachID, owner, nil, nil))
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/academy/players?coach_id="+coachID, owner, nil, &assigned))
	assert.Empty(t, assigned)
}

func Test_academyApi_attendance(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "owner-1")
	other := env.CreateAcademy(t, "Beta", "")
	p := env.CreatePlayer(t, a.ID, "Ann", "Football", "", "")
	foreign := env.CreatePlayer(t, other.ID, "Zed", "Football", "", "")
	owner := testutil.Token(t, env.Conf, "owner-1", "owner@alpha.test")

	mark := map[string]interface{}{
		"date": "2024-03-01",
		"attendance_records": []map[string]interface{}{
			{"player_id": p.ID, "present": true, "performance_ratings": map[string]int{"Teamwork": 8}},
			{"player_id": foreign.ID, "present": true},
		},
	}
	var resp attendance.MarkResponse
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, "/api/academy/attendance", owner, mark, &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, p.ID, resp.Results[0].PlayerID)
	assert.Equal(t, attendance.Created, resp.Results[0].Status)

	// marking again updates the record
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, "/api/academy/attendance", owner, mark, &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, attendance.Updated, resp.Results[0].Status)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		var day attendance.Day
		require.Equal(t, http.StatusOK, do(t, app, method, "/api/academy/attendance/2024-03-01", owner, nil, &day))
		assert.Equal(t, "2024-03-01", day.Date)
		require.Len(t, day.AttendanceRecords, 1)
		assert.Equal(t, "Ann Test", day.AttendanceRecords[0].PlayerName)
	}

	tests := []httpTest{
		{
			name: "invalid rating", method: http.MethodPost, path: "/api/academy/attendance", token: owner,
			body: marchallObj(t, map[string]interface{}{
				"date":               "2024-03-02",
				"attendance_records": []map[string]interface{}{{"player_id": p.ID, "performance_ratings": map[string]int{"Teamwork": 11}}},
			}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing date", method: http.MethodPost, path: "/api/academy/attendance", token: owner,
			body: marchallObj(t, map[string]interface{}{"attendance_records": []interface{}{}}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "this field is required"}),
		},
		{
			name: "bad date param", path: "/api/academy/attendance/01-03-2024", token: owner, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "date must be formatted as YYYY-MM-DD"}),
		},
		{
			name: "bad summary range", path: "/api/academy/attendance/summary?start_date=yesterday", token: owner,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"start_date": "date must be formatted as YYYY-MM-DD"}),
		},
	}
	runHTTPTests(t, app, tests)

	var summary attendance.Summary
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/academy/attendance/summary?start_date=2024-03-01&end_date=2024-03-31", owner, nil, &summary))
	assert.Equal(t, 1, summary.TotalRecords)
	assert.Equal(t, 1, summary.PresentRecords)
	assert.Equal(t, 100.0, summary.OverallAttendanceRate)
}

func Test_academyApi_skillRadar(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "owner-1")
	fb := env.CreatePlayer(t, a.ID, "Ann", "Football", "", "")
	bb := env.CreatePlayer(t, a.ID, "Ben", "Basketball", "", "")
	env.Rate(t, fb, "2024-03-01", map[string]interface{}{"Technical Skills": 9, "Teamwork": 5, "Physical Fitness": nil})
	env.Rate(t, fb, "2024-03-02", map[string]interface{}{"Technical Skills": "8", "Teamwork": "bad"})
	env.Rate(t, bb, "2024-03-01", map[string]interface{}{"Ball Handling": 7})
	owner := testutil.Token(t, env.Conf, "owner-1", "owner@alpha.test")

	var radar analytics.SkillRadar
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/academy/analytics/skill-radar", owner, nil, &radar))
	assert.Equal(t, 8.0, radar.Target)
	assert.Equal(t, 3, radar.RatedCount)
	require.Len(t, radar.Categories, 5)
	assert.Equal(t, analytics.CategoryAverage{Name: "Technical Skills", Average: 8.5, Count: 2}, radar.Categories[0])
	assert.Equal(t, analytics.CategoryAverage{Name: "Teamwork", Average: 5, Count: 1}, radar.Categories[4])
	assert.Equal(t, []string{"Technical Skills"}, radar.Strengths)
	assert.Contains(t, radar.Weaknesses, "Teamwork")

	// aliases answer the same
	for _, path := range []string{"/api/analytics/skill-radar", "/api/academy/skill-radar"} {
		var alias analytics.SkillRadar
		require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, path, owner, nil, &alias), path)
		assert.Equal(t, radar, alias, path)
	}

	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/academy/analytics/skill-radar?target=9", owner, nil, &radar))
	assert.Equal(t, 9.0, radar.Target)
	assert.Empty(t, radar.Strengths)

	var sports analytics.SportSkillRadar
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/academy/analytics/sport-skill-radar", owner, nil, &sports))
	require.Len(t, sports.Sports, 2)
	assert.Equal(t, "Basketball", sports.Sports[0].Sport)
	assert.Equal(t, "Football", sports.Sports[1].Sport)

	runHTTPTests(t, app, []httpTest{
		{name: "target too high", path: "/api/academy/analytics/skill-radar?target=11", token: owner, wantCode: http.StatusBadRequest},
		{name: "target NaN", path: "/api/academy/analytics/skill-radar?target=NaN", token: owner, wantCode: http.StatusBadRequest},
		{name: "sport radar requires owner", path: "/api/analytics/sport-skill-radar", wantCode: http.StatusUnauthorized},
	})
}

func Test_academyApi_fees(t *testing.T) {
	app, env := setup(t)
	a := env.CreateAcademy(t, "Alpha", "owner-1")
	p := env.CreatePlayer(t, a.ID, "Ann", "Football", "", "")
	noMail := env.CreatePlayer(t, a.ID, "Ben", "Football", "", "")
	noMail.Email = ""
	_, err := env.PlayerRepo.UpdatePlayer(context.Background(), noMail)
	require.NoError(t, err)
	owner := testutil.Token(t, env.Conf, "owner-1", "owner@alpha.test")

	var rows []fee.Row
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/academy/fees", owner, nil, &rows))
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, fee.StatusPending, r.Status)
		assert.Zero(t, r.Amount)
	}

	var f fee.StudentFee
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, "/api/academy/players/"+p.ID+"/fees", owner,
		map[string]interface{}{"amount": 1500, "frequency": "Monthly", "due_date": "2024-04-01T00:00:00Z"}, &f))
	assert.Equal(t, 1500.0, f.Amount)
	assert.Equal(t, "monthly", f.Frequency)
	assert.Equal(t, "2024-04-01", f.DueDate)
	assert.Equal(t, fee.StatusDue, f.Status)

	var rem fee.ReminderResult
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, "/api/academy/players/"+p.ID+"/fees/remind", owner, nil, &rem))
	assert.Equal(t, f.ID, rem.FeeID)
	assert.Equal(t, p.Email, rem.SentTo)
	sent := env.Mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, p.Email, sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Alpha")

	runHTTPTests(t, app, []httpTest{
		{
			name: "no email", method: http.MethodPost, path: "/api/academy/student-fees/" + noMail.ID + "/send-reminder", token: owner,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "Player does not have an email"}),
		},
		{
			name: "unknown player", method: http.MethodPost, path: "/api/academy/players/" + p.ID + "x/fees/remind", token: owner,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Player not found"}),
		},
		{
			name: "bad frequency", method: http.MethodPost, path: "/api/academy/student-fees/" + p.ID, token: owner,
			body:     marchallObj(t, map[string]interface{}{"amount": 10, "frequency": "weekly", "due_date": "2024-04-01"}),
			wantCode: http.StatusBadRequest,
		},
	})

	var paid fee.StudentFee
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPut, "/api/academy/fees/"+f.ID+"/paid", owner,
		map[string]interface{}{"payment_method": "UPI", "transaction_id": "tx-1"}, &paid))
	assert.Equal(t, fee.StatusPaid, paid.Status)
	assert.Equal(t, "upi", paid.PaymentMethod)
	require.NotNil(t, paid.PaidDate)

	var noFee httpErr
	require.Equal(t, http.StatusNotFound, do(t, app, http.MethodPost, "/api/academy/players/"+p.ID+"/fees/remind", owner, nil, &noFee))
	assert.Equal(t, "No unpaid fee found for this player", noFee.Error)

	// a mail failure is a server error
	require.Equal(t, http.StatusOK, do(t, app, http.MethodPost, "/api/academy/players/"+p.ID+"/fees", owner,
		map[string]interface{}{"amount": 100, "frequency": "yearly", "due_date": "2025-01-01"}, nil))
	env.Mailer.FailWith = errors.New("smtp down")
	assert.Equal(t, http.StatusInternalServerError, do(t, app, http.MethodPost, "/api/academy/players/"+p.ID+"/fees/remind", owner, nil, nil))
}
