package vecenv

import "errors"

var ErrChainMismatch = errors.New("eval environment wrapper chain differs from the training chain")

// UnwrapNormalize walks the wrapper chain of env and returns the first
// VecNormalize found, or nil if the chain holds none.
func UnwrapNormalize(env VecEnv) *VecNormalize {
	for {
		if norm, ok := env.(*VecNormalize); ok {
			return norm
		}
		wrapper, ok := env.(VecEnvWrapper)
		if !ok {
			return nil
		}
		env = wrapper.Unwrap()
	}
}

// SyncNormalization copies the observation statistics of every VecNormalize
// in the training chain into the wrapper at the same depth of the eval
// chain. Reward scaling is left alone, the eval chain keeps its own
// return estimate.
//
// Both chains must be wrapped identically. A VecNormalize in the training
// chain without a matching one in the eval chain is an error.
func SyncNormalization(env, evalEnv VecEnv) error {
	envTmp, evalTmp := env, evalEnv
	for {
		wrapper, ok := envTmp.(VecEnvWrapper)
		if !ok {
			return nil
		}
		evalWrapper, ok := evalTmp.(VecEnvWrapper)
		if !ok {
			return ErrChainMismatch
		}
		if norm, ok := envTmp.(*VecNormalize); ok {
			evalNorm, ok := evalTmp.(*VecNormalize)
			if !ok {
				return ErrChainMismatch
			}
			evalNorm.SetObsRMS(norm.obsRMS)
		}
		envTmp = wrapper.Unwrap()
		evalTmp = evalWrapper.Unwrap()
	}
}
