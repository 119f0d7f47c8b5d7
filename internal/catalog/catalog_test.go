package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	c, err := Load()
	require.NoError(t, err)

	require.NotEmpty(t, c.Skills())
	require.NotEmpty(t, c.Flows())
	require.NotEmpty(t, c.Runbooks())
	require.NotEmpty(t, c.Incidents())
	require.NotEmpty(t, c.Apps())

	for _, s := range c.Skills() {
		require.NotEmpty(t, s.Title, "skill %s", s.ID)
		require.Contains(t, []Engine{EngineDeterministic, EngineAssisted}, s.Engine, "skill %s", s.ID)
		require.Contains(t, []Risk{RiskSafe, RiskGuarded, RiskExternal}, s.Risk, "skill %s", s.ID)
	}
}

func TestLookupByID(t *testing.T) {
	t.Parallel()

	c, err := Load()
	require.NoError(t, err)

	s, ok := c.Skill("patch-pilot")
	require.True(t, ok)
	require.Equal(t, EngineAssisted, s.Engine)

	_, ok = c.Skill("no-such-skill")
	require.False(t, ok)

	f, ok := c.Flow("flow-release")
	require.True(t, ok)
	require.NotEmpty(t, f.Stages)

	r, ok := c.Runbook("rb-queue-stall")
	require.True(t, ok)
	require.NotEmpty(t, r.Steps)

	in, ok := c.Incident("inc-2107")
	require.True(t, ok)
	require.False(t, in.Opened.IsZero())

	_, ok = c.App("app-console")
	require.True(t, ok)
}

func TestCatalogHasBothEnginesAndExternalRisk(t *testing.T) {
	t.Parallel()

	c, err := Load()
	require.NoError(t, err)

	var det, assisted, external int
	for _, s := range c.Skills() {
		switch s.Engine {
		case EngineDeterministic:
			det++
		case EngineAssisted:
			assisted++
		}
		if s.Risk == RiskExternal {
			external++
		}
	}
	require.Positive(t, det)
	require.Positive(t, assisted)
	require.Positive(t, external, "catalog needs at least one gate-locked skill")
}

func TestIncidentsNewestFirst(t *testing.T) {
	t.Parallel()

	c, err := Load()
	require.NoError(t, err)

	incs := c.Incidents()
	for i := 1; i < len(incs); i++ {
		require.False(t, incs[i-1].Opened.Before(incs[i].Opened),
			"incident %s should sort before %s", incs[i-1].ID, incs[i].ID)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	c, err := Load()
	require.NoError(t, err)

	a := c.Skills()
	a[0].Title = "mutated"
	b := c.Skills()
	require.NotEqual(t, "mutated", b[0].Title)
}
