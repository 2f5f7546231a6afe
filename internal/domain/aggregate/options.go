package aggregate

import "github.com/okian/podium/internal/domain/model"

// Order sorts grouped counts.
type Order int

// Orders for CountBy.
const (
	// OrderKeyAsc sorts by key, numerically when both keys are integers.
	OrderKeyAsc Order = iota
	// OrderCountDesc sorts by count, largest first, ties by key.
	OrderCountDesc
)

type countOptions struct {
	present model.Column
	order   Order
}

// Option applies a configuration option to CountBy and TopNBy.
type Option func(*countOptions)

// WithPresent counts only rows where col is non-null. Groups whose rows all
// lack col stay in the result with a zero count.
func WithPresent(col model.Column) Option {
	return func(o *countOptions) {
		o.present = col
	}
}

// WithOrder sets the result order.
func WithOrder(order Order) Option {
	return func(o *countOptions) {
		o.order = order
	}
}
