package cli

import "fmt"

// MissingArgumentError is returned when a required command line argument
// wasn't provided.
type MissingArgumentError struct {
	Name string
}

// Error returns a string representation of the error.
func (e MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Name)
}
