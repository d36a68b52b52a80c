// Package logging provides structured slog logging for lexidx with a
// size-rotated log file under ~/.lexidx/logs/.
//
// Only the command layer logs. Library packages return errors and reports
// and leave presentation to the caller.
package logging
