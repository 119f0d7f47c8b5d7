package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPolicy(t *testing.T) {
	t.Parallel()

	p, err := LoadPolicy()
	require.NoError(t, err)

	require.Equal(t, RiskExternal, p.LockedRisk)
	require.Contains(t, p.LockLine, "LOCKED")
	require.NotEmpty(t, p.GateName)

	require.True(t, p.Locked(RiskExternal))
	require.False(t, p.Locked(RiskSafe))
	require.False(t, p.Locked(RiskGuarded))
}

func TestPolicyRiskLabels(t *testing.T) {
	t.Parallel()

	p, err := LoadPolicy()
	require.NoError(t, err)

	for _, r := range []Risk{RiskSafe, RiskGuarded, RiskExternal} {
		require.NotEmpty(t, p.RiskLabel(r))
	}
	// unknown classes fall back to the raw value
	require.Equal(t, "abyssal", p.RiskLabel(Risk("abyssal")))
}
