// Package logging builds the process-wide slog logger. The console
// format is a compact single-line layout for interactive use; the json
// format emits one object per record for log shippers. Output can be
// teed to a file alongside stdout.
package logging
