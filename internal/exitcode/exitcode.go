// Package exitcode defines exit codes for the planner binary.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad flags or an invalid configuration file.
	UserError = 1

	// StorageError indicates the database could not be opened, read or
	// written.
	StorageError = 2
)
