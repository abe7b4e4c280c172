package store

import "errors"

// Sentinel errors returned by collection methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrCollectionNotFound is returned by Open when no collection file
	// exists at the configured location and creation was not requested.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionClosed is returned when an operation reaches a handle
	// whose database connection has been closed.
	ErrCollectionClosed = errors.New("collection is closed")

	// ErrCollectionOpen is returned by FullUploadOrDownload when the
	// handle was not closed for full sync first.
	ErrCollectionOpen = errors.New("collection must be closed for full sync")

	// ErrDeckNotFound is returned when an operation targets a deck name
	// that does not exist in the collection.
	ErrDeckNotFound = errors.New("deck was not found")

	// ErrNoteNotFound is returned when an operation targets a note ID
	// that does not exist in the collection.
	ErrNoteNotFound = errors.New("note was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// collection methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a
	// result row into a destination fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at
	// this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
