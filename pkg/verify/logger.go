package verify

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLoggerName is the name written in every log line.
const DefaultLoggerName = "root"

const (
	loggerField = "logger"
	timeLayout  = "2006-01-02 15:04:05"
)

// NewLogger returns a logger writing plain lines of the form
// "<timestamp> - <name> - <LEVEL> - <message>" to w.
func NewLogger(w io.Writer, name string) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       true,
		PartsOrder:    []string{zerolog.TimestampFieldName, loggerField, zerolog.LevelFieldName, zerolog.MessageFieldName},
		FieldsExclude: []string{loggerField},
		FormatTimestamp: func(i any) string {
			s := fmt.Sprint(i)
			if t, err := time.Parse(zerolog.TimeFieldFormat, s); err == nil {
				s = t.Local().Format(timeLayout)
			}
			return s + " -"
		},
		FormatLevel: func(i any) string {
			return strings.ToUpper(fmt.Sprint(i)) + " -"
		},
		FormatFieldValue: func(i any) string {
			return fmt.Sprintf("%s -", i)
		},
		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
	return zerolog.New(cw).With().Timestamp().Str(loggerField, name).Logger()
}

// OpenLog truncates or creates the log file at path.
func OpenLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("verify: open log: %w", err)
	}
	return f, nil
}
