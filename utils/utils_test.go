package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestKeySetNoDuplicates(t *testing.T) {
	s := NewKeySet()

	if !s.Add("1") {
		t.Error("first Add should return true")
	}
	if s.Add("1") {
		t.Error("second Add of same key should return false")
	}
	if !s.Contains("1") || s.Contains("2") {
		t.Error("Contains reports wrong membership")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestThrottleInterval(t *testing.T) {
	rateLimitMs := 50
	th := NewThrottle(rateLimitMs)

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		th.Wait()
		timestamps = append(timestamps, time.Now())
	}

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		min := time.Duration(rateLimitMs) * time.Millisecond
		if gap < min {
			t.Errorf("gap between call %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestThrottleZeroNeverBlocks(t *testing.T) {
	th := NewThrottle(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		th.Wait()
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("zero-interval throttle should not sleep")
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below level leaked: %q", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Errorf("expected warn and error lines: %q", out)
	}
}

func TestLoggerWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, LevelDebug).With("run-1")
	l.Info("[scraper] %s", "hello")

	if !strings.Contains(buf.String(), "[run-1] [scraper] hello") {
		t.Errorf("prefix missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"1.234,56", 1234.56, true},
		{"1.234,56 €", 1234.56, true},
		{"254.100,00€", 254100, true},
		{"10,5", 10.5, true},
		{"-3,25", -3.25, true},
		{"85", 85, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"-", 0, false},
		{"1,2,3", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseLocaleFloat(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseLocaleFloat(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseIntAndDecimal(t *testing.T) {
	if n, ok := ParseInt(" 42 "); !ok || n != 42 {
		t.Errorf("ParseInt: got %d, %v", n, ok)
	}
	if _, ok := ParseInt("2 dorm"); ok {
		t.Error("ParseInt should reject trailing text")
	}
	if f, ok := ParseDecimal("55.5"); !ok || f != 55.5 {
		t.Errorf("ParseDecimal: got %v, %v", f, ok)
	}
	if _, ok := ParseDecimal(""); ok {
		t.Error("ParseDecimal should reject empty input")
	}
}
