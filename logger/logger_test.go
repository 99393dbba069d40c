package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/hostkit/errors"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, FormatJSON)
	t.Setenv(EnvNoColor, "yes-please")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if got := l.GetLogger().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("expected warn level from %s, got %s", EnvLevel, got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv(EnvTimestamp, "false")
	if envBool(EnvTimestamp, true) {
		t.Error("expected false from env")
	}
	t.Setenv(EnvTimestamp, "maybe")
	if !envBool(EnvTimestamp, true) {
		t.Error("expected default for unparseable value")
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "test")

	l.WithComponent("charset").Error("decode failed", Fields(FieldCharset, "UTF-8"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" {
		t.Errorf("expected level error, got %v", entry["level"])
	}
	if entry[FieldComponent] != "charset" {
		t.Errorf("expected component charset, got %v", entry[FieldComponent])
	}
	if entry[FieldCharset] != "UTF-8" {
		t.Errorf("expected charset field, got %v", entry[FieldCharset])
	}
}

func TestNewWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "error", Format: "json"}, &buf, "test")

	l.Info("dropped")
	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below error level, got %q", buf.String())
	}

	l.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected error entry, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	if l.WithComponent("x") == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("handler")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "test")
	l.WithFields(map[string]interface{}{"key": "value"}).Info("hello")
	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("expected field in output, got %q", buf.String())
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "test")
	l.WithError(fmt.Errorf("boom")).Warn("careful")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error in output, got %q", buf.String())
	}
}

func TestInit(t *testing.T) {
	cfg := Config{
		Level:       "info",
		Format:      "console",
		Output:      "stdout",
		ServiceName: "hostkit",
	}
	Init(&cfg)
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "hostkit" {
		t.Errorf("expected service 'hostkit', got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	SetGlobalLogger(nil)
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	got := GetGlobalLogger()
	if got != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	Init(&Config{Level: "debug", Format: "console", Output: "stdout"})
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleLoggerNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, &buf, "test-svc")
	l.Error("plain")
	out := buf.String()
	if !strings.Contains(out, "[TES][ERR]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("custom-component")
	Register("my-component", l)
	t.Cleanup(func() { Register("my-component", nil) })

	if got := Get("my-component"); got != l {
		t.Error("expected Get to return the registered logger")
	}

	Register("my-component", nil)
	if got := Get("my-component"); got == l || got == nil {
		t.Error("expected fallback logger after removal")
	}
}

func TestRegisterComponents(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "host")
	RegisterComponents(base, "charset", "preferences")
	t.Cleanup(func() {
		Register("charset", nil)
		Register("preferences", nil)
	})

	Get("charset").Info("converted")
	if !strings.Contains(buf.String(), `"component":"charset"`) {
		t.Errorf("expected charset component on base writer, got %q", buf.String())
	}

	names := Registered()
	sort.Strings(names)
	if strings.Join(names, ",") != "charset,preferences" {
		t.Errorf("unexpected registered names %v", names)
	}
}

func TestUnregister(t *testing.T) {
	base := NewWithWriter(&Config{Level: "info", Format: "json"}, &bytes.Buffer{}, "host")
	first := RegisterComponents(base, "charset")
	t.Cleanup(func() { Register("charset", nil) })

	if Unregister("charset", NewDefault("other")) {
		t.Error("Unregister removed a logger it does not own")
	}
	if Get("charset") != first["charset"] {
		t.Fatal("registered logger lost after a foreign Unregister")
	}

	second := RegisterComponents(base, "charset")
	if Unregister("charset", first["charset"]) {
		t.Error("stale owner removed the newer registration")
	}
	if !Unregister("charset", second["charset"]) {
		t.Error("owner could not remove its registration")
	}
	if len(Registered()) != 0 {
		t.Errorf("expected no registered loggers, got %v", Registered())
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{
			"key-value pairs",
			[]interface{}{"op", "decode", "size", 42},
			map[string]interface{}{"op": "decode", "size": 42},
		},
		{
			"odd number of args",
			[]interface{}{"op", "decode", "trailing"},
			map[string]interface{}{"op": "decode"},
		},
		{
			"non-string key skipped",
			[]interface{}{123, "value", "key", "val"},
			map[string]interface{}{"key": "val"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	fields := ErrorFields("decode", fmt.Errorf("something broke"))

	if fields[FieldOperation] != "decode" {
		t.Errorf("expected operation 'decode', got %v", fields[FieldOperation])
	}
	if fields[FieldError] != "something broke" {
		t.Errorf("expected error 'something broke', got %v", fields[FieldError])
	}
	if _, ok := fields[FieldCode]; ok {
		t.Error("plain errors carry no code")
	}

	fields = ErrorFields("decode", errors.UnsupportedCharset("klingon"))
	if fields[FieldCode] != string(errors.ErrCodeUnsupportedCharset) {
		t.Errorf("expected code field, got %v", fields[FieldCode])
	}
}

func TestPrefFields(t *testing.T) {
	fields := PrefFields("browser.theme", "string")
	if fields[FieldPref] != "browser.theme" || fields[FieldKind] != "string" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestDurationFields(t *testing.T) {
	fields := DurationFields("query", 150*time.Millisecond)
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}
}

func TestMergeWithError(t *testing.T) {
	err := fmt.Errorf("test error")

	fields := map[string]interface{}{"op": "save"}
	result := MergeWithError(fields, err)
	if result[FieldError] != "test error" {
		t.Errorf("expected error field, got %v", result[FieldError])
	}
	if result["op"] != "save" {
		t.Error("expected existing fields to be preserved")
	}

	result2 := MergeWithError(nil, err)
	if result2[FieldError] != "test error" {
		t.Errorf("expected error field from nil map, got %v", result2[FieldError])
	}

	if got := MergeWithError(nil, nil); len(got) != 0 {
		t.Errorf("expected no fields for nil error, got %v", got)
	}
}
