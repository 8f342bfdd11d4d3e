// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Parser fields.
	FieldBinary   = "binary"
	FieldTimeout  = "timeout"
	FieldBytes    = "bytes"
	FieldExitCode = "exit_code"
	FieldLine     = "line"
	FieldNodes    = "nodes"
	FieldTokens   = "tokens"

	// Configuration fields.
	FieldConfig = "config"
	FieldJobs   = "jobs"
	FieldCache  = "cache"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesErrored    = "files_errored"
	FieldSyntaxErrors    = "syntax_errors"
	FieldCacheHits       = "cache_hits"
	FieldCacheMisses     = "cache_misses"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
