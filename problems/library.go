package problems

import (
	"encoding/json"
	"math/rand"
	"os"

	"golang.org/x/xerrors"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// Library holds the immutable, shared problem set loaded once at process
// start (spec §3: "Problems are shared immutable data loaded once").
type Library struct {
	byID  map[string]*wire.Problem
	all   []*wire.Problem
	real  []*wire.Problem // excludes garbage
}

// Load validates and indexes a set of problem definitions.
func Load(problems []*wire.Problem) (*Library, error) {
	lib := &Library{byID: make(map[string]*wire.Problem, len(problems))}
	for _, p := range problems {
		if err := Validate(p); err != nil {
			return nil, xerrors.Errorf("problems: invalid %q: %w", p.ProblemID, err)
		}
		if _, dup := lib.byID[p.ProblemID]; dup {
			return nil, xerrors.Errorf("problems: duplicate id %q", p.ProblemID)
		}
		lib.byID[p.ProblemID] = p
		lib.all = append(lib.all, p)
		if !p.IsGarbage {
			lib.real = append(lib.real, p)
		}
	}
	if len(lib.real) == 0 {
		return nil, xerrors.New("problems: library has no non-garbage problems")
	}
	return lib, nil
}

// LoadFromFile reads a JSON array of Problem definitions from disk and
// builds a Library from it, the process-start counterpart to config.Load
// reading TOML (spec §3: "Problems are shared immutable data loaded once").
func LoadFromFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("problems: open %s: %w", path, err)
	}
	defer f.Close()

	var defs []*wire.Problem
	if err := json.NewDecoder(f).Decode(&defs); err != nil {
		return nil, xerrors.Errorf("problems: decode %s: %w", path, err)
	}
	return Load(defs)
}

// Validate checks the bounds spec §3 imposes on a Problem definition.
func Validate(p *wire.Problem) error {
	if p.ProblemID == "" {
		return xerrors.New("problemId required")
	}
	if p.TimeLimitMs < 100 || p.TimeLimitMs > 30_000 {
		return xerrors.Errorf("timeLimitMs %d out of [100,30000]", p.TimeLimitMs)
	}
	switch p.Difficulty {
	case wire.DifficultyEasy, wire.DifficultyMedium, wire.DifficultyHard:
	default:
		return xerrors.Errorf("unknown difficulty %q", p.Difficulty)
	}
	switch p.ProblemType {
	case wire.ProblemTypeCode:
		if p.FunctionName == "" || p.Signature == "" {
			return xerrors.New("code problem missing functionName/signature")
		}
	case wire.ProblemTypeMCQ:
		if len(p.Options) < 2 {
			return xerrors.New("mcq problem needs >=2 options")
		}
		if p.CorrectAnswer == "" {
			return xerrors.New("mcq problem missing correctAnswer")
		}
	default:
		return xerrors.Errorf("unknown problemType %q", p.ProblemType)
	}
	return nil
}

// Get looks up a problem by id.
func (l *Library) Get(id string) (*wire.Problem, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// pool returns the candidate pool, excluding garbage problems when asked
// (spec §4.6: "Candidate pool = all problems (excluding garbage if
// excludeGarbage=true)").
func (l *Library) pool(excludeGarbage bool) []*wire.Problem {
	if excludeGarbage {
		return l.real
	}
	return l.all
}

// Sample draws one problem for a player given their seen-set, a difficulty
// profile, and whether garbage problems may be drawn. It is a pure function
// of (pool, seen, profile, excludeGarbage, rng) other than reading the
// shared immutable library (spec §8 determinism law). Returns the chosen
// problem and the updated seen-set (seen is never mutated in place).
func (l *Library) Sample(seen map[string]bool, profile string, excludeGarbage bool, rng *rand.Rand) (*wire.Problem, map[string]bool) {
	pool := l.pool(excludeGarbage)

	candidates := filterUnseen(pool, seen)
	if len(candidates) == 0 {
		// Reset and refill (spec §4.6: "if empty, reset seen and refill").
		seen = map[string]bool{}
		candidates = pool
	} else {
		newSeen := make(map[string]bool, len(seen))
		for k := range seen {
			newSeen[k] = true
		}
		seen = newSeen
	}

	chosen := weightedPick(candidates, DifficultyWeights(profile), rng)
	seen[chosen.ProblemID] = true
	return chosen, seen
}

// SampleGarbage draws a garbage problem for an attack/timed arrival
// (spec §4.6: "Garbage problems ... drawn only by attacks or timed
// arrivals"). Falls back to a non-garbage sample if the library defines no
// garbage problems.
func (l *Library) SampleGarbage(rng *rand.Rand) *wire.Problem {
	var garbage []*wire.Problem
	for _, p := range l.all {
		if p.IsGarbage {
			garbage = append(garbage, p)
		}
	}
	if len(garbage) == 0 {
		return l.real[rng.Intn(len(l.real))]
	}
	return garbage[rng.Intn(len(garbage))]
}

func filterUnseen(pool []*wire.Problem, seen map[string]bool) []*wire.Problem {
	out := make([]*wire.Problem, 0, len(pool))
	for _, p := range pool {
		if !seen[p.ProblemID] {
			out = append(out, p)
		}
	}
	return out
}

// weightedPick performs weighted-by-difficulty selection within the given
// candidate slice (spec §4.6). Deterministic given rng's state.
func weightedPick(candidates []*wire.Problem, w Weights, rng *rand.Rand) *wire.Problem {
	byDiff := map[wire.Difficulty][]*wire.Problem{}
	for _, p := range candidates {
		byDiff[p.Difficulty] = append(byDiff[p.Difficulty], p)
	}

	type bucket struct {
		diff   wire.Difficulty
		weight int
	}
	buckets := []bucket{
		{wire.DifficultyEasy, w.Easy},
		{wire.DifficultyMedium, w.Medium},
		{wire.DifficultyHard, w.Hard},
	}

	total := 0
	for _, b := range buckets {
		if len(byDiff[b.diff]) > 0 {
			total += b.weight
		}
	}
	if total == 0 {
		// No weighted bucket has candidates; fall back to uniform over all.
		return candidates[rng.Intn(len(candidates))]
	}

	r := rng.Intn(total)
	for _, b := range buckets {
		if len(byDiff[b.diff]) == 0 {
			continue
		}
		if r < b.weight {
			group := byDiff[b.diff]
			return group[rng.Intn(len(group))]
		}
		r -= b.weight
	}
	// Unreachable given total>0, but keep a safe fallback.
	return candidates[rng.Intn(len(candidates))]
}
