// Package logging is a labelled, multi-sink logging facade built on
// rs/zerolog.
//
// Key features
//   - Named loggers kept in a Registry; asking for a name twice returns the
//     same handle
//   - Hierarchical labels: every line starts with "[App] [Worker]" so mixed
//     output can be traced back to a subsystem
//   - Seven levels (error, warn, info, http, verbose, debug, silly) filtered
//     per sink: a console at debug and a file at info see different lines
//   - Rotating file sink via lumberjack: one file per day, rolled on size,
//     with a <prefix>-current.log symlink for tailing
//   - Error normalization: causal chains (Station-Manager DetailedError,
//     Cause(), errors.Unwrap) are flattened into "caused by:" blocks with
//     the working directory redacted; cyclic chains terminate
//   - Degraded start-up instead of failure: invalid configuration falls back
//     to defaults and an unwritable log directory drops the file sink, each
//     reported once through the console
//
// Typical usage
//
//	reg := logging.NewRegistry()
//	defer reg.Close()
//
//	log := reg.Logger("app", &logging.Config{Level: "info"})
//	log.InfoWith().Str("user_id", id).Msg("processed")
//
//	worker := log.Child("Worker")
//	worker.ErrorWith().Err(err).Msg("job failed")
package logging
