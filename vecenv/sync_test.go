package vecenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(t *testing.T, withNormalize bool) (VecEnv, *VecNormalize) {
	t.Helper()
	venv, err := NewDummyVecEnv(&scriptedConstructor{epLen: 10, scale: 2}, 2)
	require.NoError(t, err)
	if !withNormalize {
		return NewVecFrameStack(venv, 2), nil
	}
	norm := NewVecNormalize(venv, DefaultNormalizeConfig())
	return NewVecFrameStack(norm, 2), norm
}

func TestUnwrapNormalizeFindsWrapper(t *testing.T) {
	chain, norm := buildChain(t, true)
	defer chain.Close()

	found := UnwrapNormalize(chain)
	require.NotNil(t, found)
	assert.Same(t, norm, found)
}

func TestUnwrapNormalizeNilWithoutWrapper(t *testing.T) {
	chain, _ := buildChain(t, false)
	defer chain.Close()

	assert.Nil(t, UnwrapNormalize(chain))

	venv, err := NewDummyVecEnv(&scriptedConstructor{epLen: 10, scale: 1}, 1)
	require.NoError(t, err)
	defer venv.Close()
	assert.Nil(t, UnwrapNormalize(venv))
}

func TestSyncNormalizationCopiesObsStats(t *testing.T) {
	train, trainNorm := buildChain(t, true)
	defer train.Close()
	eval, evalNorm := buildChain(t, true)
	defer eval.Close()

	// Drift the training statistics away from the initial ones.
	_, err := train.Reset()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = train.Step(noActions(2))
		require.NoError(t, err)
	}
	require.NotEqual(t, trainNorm.ObsRMS().Mean, evalNorm.ObsRMS().Mean)

	require.NoError(t, SyncNormalization(train, eval))

	trainRMS := trainNorm.ObsRMS()
	evalRMS := evalNorm.ObsRMS()
	assert.Equal(t, trainRMS.Mean, evalRMS.Mean)
	assert.Equal(t, trainRMS.Var, evalRMS.Var)
	assert.Equal(t, trainRMS.Count, evalRMS.Count)
}

func TestSyncNormalizationCopiesNotAliases(t *testing.T) {
	train, trainNorm := buildChain(t, true)
	defer train.Close()
	eval, evalNorm := buildChain(t, true)
	defer eval.Close()

	_, err := train.Reset()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = train.Step(noActions(2))
		require.NoError(t, err)
	}
	require.NoError(t, SyncNormalization(train, eval))

	// Further training must not leak into the eval statistics.
	synced := evalNorm.ObsRMS()
	for i := 0; i < 3; i++ {
		_, err = train.Step(noActions(2))
		require.NoError(t, err)
	}
	assert.Equal(t, synced.Mean, evalNorm.ObsRMS().Mean)
	assert.NotEqual(t, trainNorm.ObsRMS().Mean, evalNorm.ObsRMS().Mean)
}

func TestSyncNormalizationLeavesRewardStats(t *testing.T) {
	train, trainNorm := buildChain(t, true)
	defer train.Close()
	eval, evalNorm := buildChain(t, true)
	defer eval.Close()

	_, err := train.Reset()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = train.Step(noActions(2))
		require.NoError(t, err)
	}
	require.NoError(t, SyncNormalization(train, eval))

	assert.NotEqual(t, trainNorm.RetRMS().Count, evalNorm.RetRMS().Count)
}

func TestSyncNormalizationChainMismatch(t *testing.T) {
	train, _ := buildChain(t, true)
	defer train.Close()
	eval, _ := buildChain(t, false)
	defer eval.Close()

	require.ErrorIs(t, SyncNormalization(train, eval), ErrChainMismatch)
}

func TestSyncNormalizationNoNormalizeIsNoOp(t *testing.T) {
	train, _ := buildChain(t, false)
	defer train.Close()
	eval, _ := buildChain(t, false)
	defer eval.Close()

	require.NoError(t, SyncNormalization(train, eval))
}
