package fsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const menuConfigYAML = `
name: mobile_menu
initial: collapsed
states: [collapsed, opening, expanded, closing, overlay]
transitions:
  - from: collapsed
    to: [opening, expanded, overlay]
  - from: opening
    to: [expanded, collapsed]
  - from: expanded
    to: [closing, overlay]
  - from: overlay
    to: [expanded, closing]
  - from: closing
    to: [collapsed, expanded]
guard: 'from != "opening" || to in ["expanded", "collapsed"]'
logCapacity: 50
`

func TestLoadConfigFromBytes(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromBytes([]byte(menuConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "mobile_menu", config.Name)
	assert.Equal(t, Kind("collapsed"), config.Initial)
	assert.Len(t, config.States, 5)
	assert.Equal(t, 50, config.LogCapacity)
}

func TestConfigBuild(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromBytes([]byte(menuConfigYAML))
	require.NoError(t, err)

	m, err := config.Build()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.Transition(ctx, "opening", "open requested", nil))

	// The embedded guard restricts mid-animation jumps.
	assert.False(t, m.CanTransitionTo("overlay"))
	require.NoError(t, m.Transition(ctx, "expanded", "animation done", nil))
	assert.Equal(t, Kind("expanded"), m.Current())
}

func TestConfigValidateReportsAllDefects(t *testing.T) {
	t.Parallel()

	config := &Config{
		Initial: "nowhere",
		States:  []Kind{"a", "a"},
		Transitions: []TransitionConfig{
			{From: "ghost", To: []Kind{"phantom"}},
		},
		LogCapacity: -1,
	}

	err := config.Validate()
	require.Error(t, err)

	// One pass reports every problem, not just the first.
	require.ErrorIs(t, err, ErrConfigNameRequired)
	require.ErrorIs(t, err, ErrInitialStateUnknown)
	require.ErrorIs(t, err, ErrDuplicateState)
	require.ErrorIs(t, err, ErrTransitionFromUnknown)
	require.ErrorIs(t, err, ErrTransitionToUnknown)
	require.ErrorIs(t, err, ErrLogCapacityInvalid)
}

func TestConfigValidateBadGuard(t *testing.T) {
	t.Parallel()

	config := &Config{
		Name:    "m",
		Initial: "a",
		States:  []Kind{"a"},
		Guard:   "from ==",
	}

	err := config.Validate()
	require.ErrorIs(t, err, ErrGuardExpressionInvalid)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig("testdata/does-not-exist.yaml")
	require.Error(t, err)
}
