// Package problems implements the Problem Library (spec §4.6): loading and
// validating problem definitions, weighted sampling by difficulty profile,
// and per-player no-repeat tracking.
package problems

// Weights are the (easy, medium, hard) sampling weights for a difficulty
// profile (spec §4.6).
type Weights struct {
	Easy, Medium, Hard int
}

// DifficultyWeights returns the closed profile->weights mapping (spec §4.6).
// A pure function so it satisfies the "Determinism of pure cores" law
// (spec §8).
func DifficultyWeights(profile string) Weights {
	switch profile {
	case "beginner":
		return Weights{Easy: 70, Medium: 25, Hard: 5}
	case "competitive":
		return Weights{Easy: 20, Medium: 40, Hard: 40}
	default: // "moderate"
		return Weights{Easy: 40, Medium: 40, Hard: 20}
	}
}
