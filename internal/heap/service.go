package heap

// Preset selects which checkers Service runs (spec §4.8's
// `Preset::Balanced | …`).
type Preset uint8

const (
	PresetMinimal Preset = iota
	PresetBalanced
	PresetStrict
)

// Config selects the checker set and ownership type classification for
// one Service invocation.
type Config struct {
	Preset  Preset
	Classes TypeClass
}

// checkersFor returns the checkers a Preset enables. Minimal runs only
// the checks with no false-positive risk from missing reachability data
// (null-deref, use-after-free); Balanced adds double-free and proven
// buffer-overflow; Strict adds the lower-confidence spatial-safety
// checker that fires on every unbounded index.
func checkersFor(p Preset) []Checker {
	switch p {
	case PresetMinimal:
		return []Checker{NullDerefChecker{}, UseAfterFreeChecker{}}
	case PresetStrict:
		return []Checker{
			NullDerefChecker{}, UseAfterFreeChecker{}, DoubleFreeChecker{},
			BufferOverflowChecker{}, SpatialSafetyChecker{},
		}
	default:
		return []Checker{
			NullDerefChecker{}, UseAfterFreeChecker{}, DoubleFreeChecker{}, BufferOverflowChecker{},
		}
	}
}

// Report is Service's combined output for one function.
type Report struct {
	Escape     *Result
	Issues     []MemorySafetyIssue
	Violations []OwnershipViolation
}

// Service composes escape analysis, the configured memory-safety
// checkers, and ownership tracking into one pass over a function (spec
// §4.8's heap-analysis service).
type Service struct {
	cfg Config
}

// NewService builds a Service for the given preset and ownership type
// classification.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Input bundles everything Analyze needs for one function; each field is
// produced by whatever builds the function's IR (internal/irbuilder and
// internal/dataflow), not re-derived here.
type Input struct {
	Allocs []AllocSite
	Flows  []FlowEdge
	Uses   []Use

	Check CheckContext

	VarTypes []VarType
	Events   []OwnershipEvent
}

// Analyze runs escape analysis, the preset's memory-safety checkers, and
// ownership tracking over one function and returns the combined report.
func (s *Service) Analyze(in Input) *Report {
	report := &Report{
		Escape: AnalyzeEscape(in.Allocs, in.Flows, in.Uses),
	}

	for _, checker := range checkersFor(s.cfg.Preset) {
		report.Issues = append(report.Issues, checker.Check(in.Check)...)
	}

	report.Violations = CheckOwnership(in.VarTypes, s.cfg.Classes, in.Events)
	return report
}
