package wire

// TestCase is one public or hidden test for a code problem.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// Problem is the full, server-side record (spec §3). Code problems carry
// functionName/signature/starterCode/tests/hints/solutionSketch; MCQ
// problems carry options/correctAnswer.
type Problem struct {
	ProblemID   string      `json:"problemId"`
	Title       string      `json:"title"`
	Difficulty  Difficulty  `json:"difficulty"`
	ProblemType ProblemType `json:"problemType"`
	Prompt      string      `json:"prompt"`
	TimeLimitMs int         `json:"timeLimitMs"`
	IsGarbage   bool        `json:"isGarbage,omitempty"`
	HintCount   int         `json:"hintCount,omitempty"`

	// Code-problem fields.
	FunctionName   string     `json:"functionName,omitempty"`
	Signature      string     `json:"signature,omitempty"`
	StarterCode    string     `json:"starterCode,omitempty"`
	PublicTests    []TestCase `json:"publicTests,omitempty"`
	HiddenTests    []TestCase `json:"hiddenTests,omitempty"`
	Hints          []string   `json:"hints,omitempty"`
	SolutionSketch string     `json:"solutionSketch,omitempty"`

	// MCQ-problem fields.
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// ClientView strips server-only fields (hiddenTests, hints beyond revealed
// count, solutionSketch, correctAnswer) producing a ClientProblemView
// (spec §3). revealedHints controls how many hints are visible.
func (p *Problem) ClientView(revealedHints int) *ClientProblemView {
	v := &ClientProblemView{
		ProblemID:      p.ProblemID,
		Title:          p.Title,
		Difficulty:     p.Difficulty,
		ProblemType:    p.ProblemType,
		Prompt:         p.Prompt,
		TimeLimitMs:    p.TimeLimitMs,
		IsGarbage:      p.IsGarbage,
		FunctionName:   p.FunctionName,
		Signature:      p.Signature,
		StarterCode:    p.StarterCode,
		PublicTests:    p.PublicTests,
		Options:        p.Options,
	}
	if revealedHints > 0 && len(p.Hints) > 0 {
		if revealedHints > len(p.Hints) {
			revealedHints = len(p.Hints)
		}
		v.RevealedHints = append([]string{}, p.Hints[:revealedHints]...)
	}
	return v
}

// ClientProblemView is a Problem with hiddenTests, hints beyond the
// revealed count, solutionSketch, and correctAnswer stripped (spec §3).
type ClientProblemView struct {
	ProblemID     string      `json:"problemId"`
	Title         string      `json:"title"`
	Difficulty    Difficulty  `json:"difficulty"`
	ProblemType   ProblemType `json:"problemType"`
	Prompt        string      `json:"prompt"`
	TimeLimitMs   int         `json:"timeLimitMs"`
	IsGarbage     bool        `json:"isGarbage,omitempty"`
	FunctionName  string      `json:"functionName,omitempty"`
	Signature     string      `json:"signature,omitempty"`
	StarterCode   string      `json:"starterCode,omitempty"`
	PublicTests   []TestCase  `json:"publicTests,omitempty"`
	Options       []string    `json:"options,omitempty"`
	RevealedHints []string    `json:"revealedHints,omitempty"`
}

// QueuedProblemSummary is the shape a player's queued (not-yet-current)
// problems take in their private state (spec §3: "queued list of problem
// summaries").
type QueuedProblemSummary struct {
	ProblemID  string     `json:"problemId"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	IsGarbage  bool       `json:"isGarbage,omitempty"`
}

// Summary produces the QueuedProblemSummary for a Problem.
func (p *Problem) Summary() QueuedProblemSummary {
	return QueuedProblemSummary{
		ProblemID:  p.ProblemID,
		Title:      p.Title,
		Difficulty: p.Difficulty,
		IsGarbage:  p.IsGarbage,
	}
}

// ChatMessage is one lobby chat entry (spec §3), capped at 100 per room.
type ChatMessage struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Sender    string `json:"sender,omitempty"`
	Text      string `json:"text"`
}

// EventLogLevel is the severity of an EventLogEntry.
type EventLogLevel string

const (
	LogLevelInfo EventLogLevel = "info"
	LogLevelWarn EventLogLevel = "warn"
)

// EventLogEntry is one room event-log line (spec §3), e.g. elimination,
// host transfer.
type EventLogEntry struct {
	ID        string        `json:"id"`
	Timestamp int64         `json:"timestamp"`
	Level     EventLogLevel `json:"level"`
	Text      string        `json:"text"`
	Sender    string        `json:"sender,omitempty"`
}
