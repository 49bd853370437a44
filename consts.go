package logging

const (
	// DefaultName is the registry name used when none is given.
	DefaultName = "App"
	emptyString = ""

	// FileDisabled is the Config.File value that turns the file sink off.
	FileDisabled = "false"
)

const (
	envConfigDir = "CONFIG_DIR"
	envLogLevel  = "LOG_LEVEL"

	logsDirName          = "logs"
	defaultConfigDirName = "config"
	defaultFilePrefix    = "app"
	defaultMaxSizeMB     = 5
	currentFileSuffix    = "-current.log"
	fileDateLayout       = "2006-01-02"

	formatText = "text"
	formatJSON = "json"
)

// Field names used when a record is encoded for a sink.
const (
	labelsFieldName = "labels"
	leafFieldName   = "leaf"
	stackFieldName  = "stack"
	causeFieldName  = "cause"
	errorFieldName  = "error"

	// userFieldPrefix moves a record field off a reserved name.
	userFieldPrefix = "fields."
)

const (
	errMsgNilConfig         = "Logging config is nil."
	errMsgConfigInvalid     = "Logging levels were not valid. Must be one of: 'error', 'warn', 'info', 'verbose', 'debug', 'silent' -- 'file' may be false."
	errMsgEnvLevelInvalid   = "LOG_LEVEL is not a valid logging level, using 'info'."
	errMsgLogDirNotWritable = "Logging directory is not writable."
	errMsgFileSinkDropped   = "WILL NOT write logs to rotating file due to an error while trying to access the specified logging directory"
	errMsgConfigRead        = "Logging config file could not be read."
	errMsgConfigParse       = "Logging config file could not be parsed."
	errMsgEnvRead           = "Logging environment could not be read."
	errMsgUnknownLevel      = "Unknown log level."
)
