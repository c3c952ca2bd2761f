package pgetl

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied schema drop approval
	ExitLoadFailed      = 13 // SQL execution failed while loading a file
	ExitInvalidData     = 14 // Input file could not be parsed
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a whole run. It protects against hung connections,
	// not slow loads; raise it for very large data sets.
	DefaultTimeout = 1 * time.Hour

	// DefaultDatabase is used when no database is given by flag, environment or pgetl.yaml.
	DefaultDatabase = "sparkifydb"

	// DefaultSongDataPath and DefaultLogDataPath are the input roots used
	// when neither flags nor pgetl.yaml name them.
	DefaultSongDataPath = "data/song_data"
	DefaultLogDataPath  = "data/log_data"

	// DataFileExtension selects input files during discovery.
	DataFileExtension = ".json"

	// NextSongPage is the log event page value that marks a song play.
	NextSongPage = "NextSong"

	// ApplicationNamePrefix is sent as application_name, suffixed with the run ID.
	ApplicationNamePrefix = "pgetl-"
)
