//go:build !windows

package redirect

// NewProvider returns the no-op provider; only Windows redirects
func NewProvider() Provider {
	return Noop{}
}
