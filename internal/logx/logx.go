package logx

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

var enableColor = isatty.IsTerminal(os.Stdout.Fd()) && strings.TrimSpace(os.Getenv("NO_COLOR")) == ""

// Field is one key=value pair appended to a request line. Fields keep
// the order they were added in.
type Field struct {
	Key   string
	Value any
}

func ColorizeStatus(status int) string {
	return colorizeStatus(status, enableColor)
}

func colorizeStatus(status int, color bool) string {
	if !color {
		return fmt.Sprintf("%d", status)
	}
	const (
		reset  = "\x1b[0m"
		red    = "\x1b[31m"
		green  = "\x1b[32m"
		yellow = "\x1b[33m"
		cyan   = "\x1b[36m"
	)
	switch {
	case status >= 200 && status < 300:
		return green + fmt.Sprintf("%d", status) + reset
	case status >= 300 && status < 400:
		return cyan + fmt.Sprintf("%d", status) + reset
	case status >= 400 && status < 500:
		return yellow + fmt.Sprintf("%d", status) + reset
	default:
		return red + fmt.Sprintf("%d", status) + reset
	}
}

// FormatRequestLine prints a single line request log.
//
// Example:
// [MGW] 2026/08/30 - 17:44:22 | 200 | 12.3ms | 127.0.0.1 | GET "/api/2.0/gateway/routes/" | request_id=... route=chat
func FormatRequestLine(
	ts time.Time,
	status int,
	latency time.Duration,
	clientIP string,
	method string,
	path string,
	fields []Field,
) string {
	return FormatRequestLineWithColor(ts, status, latency, clientIP, method, path, fields, enableColor)
}

func FormatRequestLineWithColor(
	ts time.Time,
	status int,
	latency time.Duration,
	clientIP string,
	method string,
	path string,
	fields []Field,
	color bool,
) string {
	base := fmt.Sprintf(
		`[MGW] %s | %s | %s | %s | %s %q`,
		ts.Format("2006/01/02 - 15:04:05"),
		colorizeStatus(status, color),
		latency.String(),
		strings.TrimSpace(clientIP),
		strings.TrimSpace(method),
		path,
	)
	extra := formatFields(fields)
	if extra == "" {
		return base
	}
	return base + " | " + extra
}

func formatFields(fields []Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", f.Value))
		if s == "" || s == "<nil>" {
			continue
		}
		parts = append(parts, f.Key+"="+s)
	}
	return strings.Join(parts, " ")
}
