package commands

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const APP = "maturity-assessment"
const VERSION = "v0.1.0"

// OAuth2 scopes requested for the Google credentials: worksheet read/write
// (the report command writes scores back) and file metadata (revision
// tracking for --skip-unmodified).
const (
	SPREADSHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE        = "https://www.googleapis.com/auth/drive.metadata.readonly"
)

var logger = zap.NewNop().Sugar()

// SetLogger installs the process logger for all commands.
func SetLogger(l *zap.Logger) {
	logger = l.Sugar()
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = logger.Sync()
}

func debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

func spreadsheetID(url string) (string, error) {
	match := spreadsheetURL.FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}
