package memo

const defaultMaxSize = 256

type options struct {
	maxSize int
}

// Option configures a Cache.
type Option func(*options)

// WithMaxSize sets the maximum number of entries kept.
// If maxSize <= 0 the cache is disabled and Put is a no-op.
func WithMaxSize(maxSize int) Option {
	return func(o *options) {
		o.maxSize = maxSize
	}
}
