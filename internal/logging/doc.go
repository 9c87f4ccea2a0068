// Package logging constructs slog loggers for seedlink. Two output formats
// are supported: a human-oriented console handler used interactively and a
// JSON handler for machine consumption. Loggers also mirror output into the
// configured log directory.
package logging
