// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task number, empty text).
	UserError = 1

	// AuthError indicates a missing or invalid config, credential or token.
	AuthError = 2

	// StorageError indicates the storage backend could not be opened.
	StorageError = 3
)
