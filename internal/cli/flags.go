package cli

import (
	"github.com/thediveo/enumflag/v2"

	"asmkit/internal/logging"
)

type logFormat enumflag.Flag

const (
	logFormatAuto logFormat = iota
	logFormatConsole
	logFormatJSON
)

var logFormatIds = map[logFormat][]string{
	logFormatAuto:    {logging.FormatAuto},
	logFormatConsole: {logging.FormatConsole},
	logFormatJSON:    {logging.FormatJSON},
}

type logLevel enumflag.Flag

const (
	logLevelTrace logLevel = iota
	logLevelDebug
	logLevelInfo
	logLevelWarn
	logLevelError
)

var logLevelIds = map[logLevel][]string{
	logLevelTrace: {"trace"},
	logLevelDebug: {"debug"},
	logLevelInfo:  {"info"},
	logLevelWarn:  {"warn", "warning"},
	logLevelError: {"error"},
}
