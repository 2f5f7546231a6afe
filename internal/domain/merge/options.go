package merge

// Policy decides what happens when the region lookup repeats a NOC code.
type Policy string

// Duplicate-code policies.
const (
	// KeepFirst joins against the first lookup row for each code and reports
	// the repeated codes in Result.Duplicates.
	KeepFirst Policy = "keep_first"
	// Strict refuses to join and returns ErrJoinAmbiguity.
	Strict Policy = "strict"
)

// ParsePolicy maps a config value to a Policy. Empty means KeepFirst.
func ParsePolicy(s string) (Policy, bool) {
	switch Policy(s) {
	case "", KeepFirst:
		return KeepFirst, true
	case Strict:
		return Strict, true
	}
	return "", false
}

type options struct {
	policy Policy
}

// Option applies a configuration option to Merge.
type Option func(*options)

// WithPolicy sets the duplicate-code policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p == KeepFirst || p == Strict {
			o.policy = p
		}
	}
}
