package logx

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRequestLine_NoColor(t *testing.T) {
	ts := time.Date(2026, 8, 30, 17, 44, 22, 0, time.UTC)
	line := FormatRequestLineWithColor(
		ts, 200, 12*time.Millisecond, "127.0.0.1", "GET", "/api/2.0/gateway/routes/",
		[]Field{{Key: "request_id", Value: "abc"}, {Key: "route", Value: "chat"}},
		false,
	)
	want := `[MGW] 2026/08/30 - 17:44:22 | 200 | 12ms | 127.0.0.1 | GET "/api/2.0/gateway/routes/" | request_id=abc route=chat`
	if line != want {
		t.Fatalf("line mismatch:\n got  %s\n want %s", line, want)
	}
}

func TestFormatRequestLine_SkipsEmptyFields(t *testing.T) {
	line := FormatRequestLineWithColor(
		time.Now(), 404, time.Millisecond, "10.0.0.1", "GET", "/x",
		[]Field{{Key: "route", Value: ""}, {Key: "err", Value: nil}},
		false,
	)
	if strings.Contains(line, "route=") || strings.Contains(line, "err=") {
		t.Fatalf("empty fields leaked into line: %s", line)
	}
	if !strings.HasSuffix(line, `GET "/x"`) {
		t.Fatalf("unexpected trailing separator: %s", line)
	}
}

func TestColorizeStatus_Ranges(t *testing.T) {
	cases := map[int]string{
		200: "\x1b[32m",
		302: "\x1b[36m",
		404: "\x1b[33m",
		502: "\x1b[31m",
	}
	for status, prefix := range cases {
		got := colorizeStatus(status, true)
		if !strings.HasPrefix(got, prefix) {
			t.Errorf("status %d: got %q, want prefix %q", status, got, prefix)
		}
	}
	if got := colorizeStatus(500, false); got != "500" {
		t.Errorf("plain status: got %q", got)
	}
}
