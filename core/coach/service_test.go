package coach_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	"github.com/Arun270647/tma-demo-repo/core/player"
	testutil "github.com/Arun270647/tma-demo-repo/tests"
)

func TestService_CreateWithinLimit(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.CreateAcademy(t, "Alpha", "", 50, 1)

	c, err := env.CoachSvc.Create(ctx, a.ID, a.CoachLimit, coach.NewCoach{FirstName: "Carl", LastName: "Coach"})
	require.NoError(t, err)
	assert.Equal(t, coach.StatusActive, c.Status)
	assert.Equal(t, []string{}, c.Sports)

	_, err = env.CoachSvc.Create(ctx, a.ID, a.CoachLimit, coach.NewCoach{FirstName: "Dan", LastName: "Coach"})
	var lerr *core.LimitError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "Academy has reached maximum coach limit of 1", lerr.Error())

	// suspended coaches free their slot
	status := coach.StatusSuspended
	_, err = env.CoachSvc.Update(ctx, a.ID, c.ID, coach.UpdateCoach{Status: &status})
	require.NoError(t, err)
	_, err = env.CoachSvc.Create(ctx, a.ID, a.CoachLimit, coach.NewCoach{FirstName: "Dan", LastName: "Coach"})
	require.NoError(t, err)

	n, err := env.CoachSvc.Count(ctx, a.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.CreateAcademy(t, "Alpha", "")
	b := env.CreateAcademy(t, "Beta", "")
	c := env.CreateCoach(t, a.ID, "Carl", "")

	bio := "UEFA B"
	years := 4
	got, err := env.CoachSvc.Update(ctx, a.ID, c.ID, coach.UpdateCoach{Bio: &bio, ExperienceYears: &years})
	require.NoError(t, err)
	assert.Equal(t, "UEFA B", got.Bio)
	assert.Equal(t, 4, *got.ExperienceYears)
	assert.Equal(t, "Carl", got.FirstName)
	assert.Equal(t, []string{"Football"}, got.Sports)

	_, err = env.CoachSvc.Update(ctx, b.ID, c.ID, coach.UpdateCoach{Bio: &bio})
	assert.Equal(t, coach.ErrNotFound, err)
}

func TestService_DeleteUnassignsPlayers(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.CreateAcademy(t, "Alpha", "")
	c := env.CreateCoach(t, a.ID, "Carl", "")
	other := env.CreateCoach(t, a.ID, "Dan", "")
	p1 := env.CreatePlayer(t, a.ID, "Ann", "Football", c.ID, "")
	p2 := env.CreatePlayer(t, a.ID, "Ben", "Football", other.ID, "")

	require.NoError(t, env.CoachSvc.Delete(ctx, a.ID, c.ID))

	_, err := env.CoachSvc.Get(ctx, a.ID, c.ID)
	assert.Equal(t, coach.ErrNotFound, err)
	got, err := env.PlayerSvc.Get(ctx, a.ID, p1.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CoachID)
	got, err = env.PlayerSvc.Get(ctx, a.ID, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.CoachID)

	players, err := env.PlayerSvc.Query(ctx, player.Filter{AcademyID: a.ID})
	require.NoError(t, err)
	assert.Len(t, players, 2)

	assert.Equal(t, coach.ErrNotFound, env.CoachSvc.Delete(ctx, a.ID, c.ID))
}

func TestService_DeleteRemovesBinding(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.CreateAcademy(t, "Alpha", "owner-1")
	c := env.CreateCoach(t, a.ID, "Carl", "")
	other := env.CreateCoach(t, a.ID, "Dan", "")
	for subject, id := range map[string]string{"coach-1": c.ID, "coach-2": other.ID} {
		_, err := env.BindingSvc.Create(ctx, identity.NewBinding{Subject: subject, Role: identity.RoleCoach, AcademyID: a.ID, CoachID: id})
		require.NoError(t, err)
	}

	require.NoError(t, env.CoachSvc.Delete(ctx, a.ID, c.ID))

	_, err := env.BindingSvc.Get(ctx, "coach-1")
	assert.Equal(t, identity.ErrNotFound, err)
	for _, subject := range []string{"coach-2", "owner-1"} {
		_, err = env.BindingSvc.Get(ctx, subject)
		assert.NoError(t, err, subject)
	}

	// the former coach no longer resolves to a role
	_, err = env.Resolver.RequireCoach(ctx, testutil.Token(t, env.Conf, "coach-1", "carl@alpha.test"))
	assert.Equal(t, identity.ErrForbidden, err)
}

func TestNewCoach_Validate(t *testing.T) {
	env := testutil.NewEnv(t)

	nc := coach.NewCoach{FirstName: " Carl ", LastName: "Coach", Email: "CARL@Alpha.test", Sports: []string{"Football", "Tennis"}}
	require.NoError(t, nc.Validate(env.Validate))
	assert.Equal(t, "Carl", nc.FirstName)
	assert.Equal(t, "carl@alpha.test", nc.Email)

	nc = coach.NewCoach{FirstName: "Carl", LastName: "Coach", Sports: []string{"Quidditch"}}
	assert.Error(t, nc.Validate(env.Validate))

	nc = coach.NewCoach{FirstName: "Carl", LastName: "Coach", HireDate: "01/02/2024"}
	assert.Error(t, nc.Validate(env.Validate))
}
