// Package spaces describes the action and observation spaces of
// environments. A space validates and samples flat []float64 vectors.
package spaces

// Space describes a set of valid action or observation vectors.
type Space interface {
	// Contains returns whether x is a member of the space
	Contains(x []float64) bool

	// Sample draws a uniform random member of the space
	Sample() []float64

	// Seed seeds the sampler for the space
	Seed(uint64)

	// FlatDim returns the length of vectors in the space
	FlatDim() int
}
