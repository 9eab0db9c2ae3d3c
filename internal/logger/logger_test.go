package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type record struct {
	prov Provenance
	lev  Level
	msg  string
}

func capture() (*[]record, Handler) {
	records := &[]record{}
	return records, func(prov Provenance, lev Level, msg string) {
		*records = append(*records, record{prov, lev, msg})
	}
}

func TestParseLevel(t *testing.T) {
	for i, name := range levelNames {
		lev, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if lev != Level(i) || lev.String() != name {
			t.Errorf("expected %s, got %s", name, lev)
		}
	}
	if _, err := ParseLevel("verbose"); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestMinimumLevelFilters(t *testing.T) {
	records, h := capture()
	l := New(h, "")
	if l.Level() != DefaultLevel {
		t.Fatalf("expected default level %s, got %s", DefaultLevel, l.Level())
	}

	l.Debugf("hidden")
	l.Statusf("hidden")
	l.Infof("shown %d", 1)
	l.Errorf("shown %d\n", 2)

	if len(*records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(*records))
	}
	if (*records)[0].msg != "shown 1" || (*records)[1].msg != "shown 2" {
		t.Errorf("unexpected messages %+v", *records)
	}
	if (*records)[1].lev != Error {
		t.Errorf("expected error level, got %s", (*records)[1].lev)
	}

	l.SetLevel(Debug)
	l.Debugf("now shown")
	if len(*records) != 3 {
		t.Errorf("expected debug message after lowering level")
	}
}

func TestProvenance(t *testing.T) {
	records, h := capture()
	l := New(h, "")
	l.Warnf("here")

	prov := (*records)[0].prov
	if prov.File != "logger_test.go" {
		t.Errorf("expected logger_test.go, got %s", prov.File)
	}
	if prov.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestLevelFromEnvironment(t *testing.T) {
	t.Setenv("MCTRANS_TEST_LOG", "warning")
	_, h := capture()
	l := New(h, "MCTRANS_TEST_LOG")
	if l.Level() != Warning {
		t.Errorf("expected warning, got %s", l.Level())
	}
}

func TestInvalidEnvironmentIgnored(t *testing.T) {
	var warn bytes.Buffer
	saved := warnOutput
	warnOutput = &warn
	defer func() { warnOutput = saved }()

	t.Setenv("MCTRANS_TEST_LOG", "loud")
	_, h := capture()
	l := New(h, "MCTRANS_TEST_LOG")

	if l.Level() != DefaultLevel {
		t.Errorf("expected default level, got %s", l.Level())
	}
	if !strings.Contains(warn.String(), "invalid value 'loud'") {
		t.Errorf("expected warning about invalid value, got %q", warn.String())
	}
}

func TestNilHandlerDiscards(t *testing.T) {
	l := New(nil, "")
	if l.Enabled(Critical) {
		t.Error("nil handler should disable logging")
	}
	l.Criticalf("dropped")
}

func TestDefaultHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(DefaultHandler(&buf), "")
	l.SetLevel(Debug)

	l.Infof("registered %d particles", 3)
	l.Warnf("capacity exhausted")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if strings.Contains(lines[0], "logger_test.go") {
		t.Error("info lines should not carry provenance")
	}
	if !strings.Contains(lines[0], "info:") || !strings.Contains(lines[0], "registered 3 particles") {
		t.Errorf("unexpected info line %q", lines[0])
	}
	if !strings.Contains(lines[1], "logger_test.go:") || !strings.Contains(lines[1], "warning:") {
		t.Errorf("unexpected warning line %q", lines[1])
	}
}

func TestLocalHandler(t *testing.T) {
	var buf bytes.Buffer
	New(LocalHandler(&buf, 1234), "").Errorf("boom")
	out := buf.String()
	if !strings.Contains(out, "pid 1234:") || !strings.Contains(out, "error:") || !strings.Contains(out, "boom") {
		t.Errorf("unexpected local line %q", out)
	}
}
