package context

// Environment provides read access to the process environment variables.
type Environment interface {
	// Get returns the value of the variable named by key, or an empty string
	// if it isn't set.
	Get(key string) string
}
