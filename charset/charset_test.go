package charset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/observability"
	"github.com/kbukum/hostkit/observability/metrictest"
)

const (
	latin1Cafe   = "caf\xe9"
	sjisNihon    = "\x93\xfa\x96\x7b"
	cp1252Euro   = "\x80"
	unicodeNihon = "日本"
)

// logSink captures JSON log entries, one per line.
type logSink struct{ buf bytes.Buffer }

func (s *logSink) logger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, &s.buf, "test")
}

func (s *logSink) entries(t *testing.T) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(s.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func newTestBridge(t *testing.T) (*Bridge, *logSink) {
	t.Helper()
	c := di.NewContainer()
	if err := Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	sink := &logSink{}
	return NewBridge(WithLocator(c), WithLogger(sink.logger())), sink
}

// fakeCodec fails or panics on demand.
type fakeCodec struct {
	charset   string
	decodeErr error
	encodeErr error
	panicMsg  string
}

func (f *fakeCodec) SetCharset(name string) error { f.charset = name; return nil }
func (f *fakeCodec) Charset() string              { return f.charset }

func (f *fakeCodec) ConvertToUnicode(text string) (string, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.decodeErr != nil {
		return "", f.decodeErr
	}
	return "decoded:" + text, nil
}

func (f *fakeCodec) ConvertFromUnicode(text string) (string, error) {
	if f.encodeErr != nil {
		return "", f.encodeErr
	}
	return "encoded:" + text, nil
}

func TestLookup(t *testing.T) {
	tests := []struct {
		label     string
		canonical string
	}{
		{"UTF-8", "UTF-8"},
		{"utf-8", "UTF-8"},
		{"ISO-8859-1", "ISO-8859-1"},
		{"Shift_JIS", "Shift_JIS"},
		{"windows-1252", "windows-1252"},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			enc, name, err := Lookup(tc.label)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", tc.label, err)
			}
			if enc == nil {
				t.Fatal("expected an encoding")
			}
			if !strings.EqualFold(name, tc.canonical) {
				t.Errorf("expected canonical %q, got %q", tc.canonical, name)
			}
		})
	}

	for _, bad := range []string{"", "  ", "klingon-8"} {
		if _, _, err := Lookup(bad); !errors.IsCode(err, errors.ErrCodeUnsupportedCharset) {
			t.Errorf("Lookup(%q): expected UNSUPPORTED_CHARSET, got %v", bad, err)
		}
	}
	if Supported("klingon-8") {
		t.Error("klingon-8 should not be supported")
	}
}

func TestTextCodec(t *testing.T) {
	c := NewTextCodec()
	if !strings.EqualFold(c.Charset(), DefaultCharset) {
		t.Errorf("expected default charset, got %q", c.Charset())
	}

	if err := c.SetCharset("Shift_JIS"); err != nil {
		t.Fatalf("SetCharset failed: %v", err)
	}
	got, err := c.ConvertToUnicode(sjisNihon)
	if err != nil || got != unicodeNihon {
		t.Errorf("decode: expected %q, got %q (%v)", unicodeNihon, got, err)
	}
	back, err := c.ConvertFromUnicode(unicodeNihon)
	if err != nil || back != sjisNihon {
		t.Errorf("encode: expected %q, got %q (%v)", sjisNihon, back, err)
	}

	if err := c.SetCharset("klingon-8"); err == nil {
		t.Error("expected error for unknown charset")
	}
	if !strings.EqualFold(c.Charset(), "Shift_JIS") {
		t.Errorf("failed SetCharset must keep the previous charset, got %q", c.Charset())
	}
}

func TestDecodeEncode(t *testing.T) {
	b, _ := newTestBridge(t)

	tests := []struct {
		name    string
		charset string
		raw     string
		unicode string
	}{
		{"latin1", "ISO-8859-1", latin1Cafe, "café"},
		{"shift_jis", "Shift_JIS", sjisNihon, unicodeNihon},
		{"cp1252", "windows-1252", cp1252Euro, "€"},
		{"utf8", "UTF-8", "héllo", "héllo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.Decode(tc.raw, tc.charset)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != tc.unicode {
				t.Errorf("Decode: expected %q, got %q", tc.unicode, got)
			}

			raw, err := b.Encode(tc.unicode, tc.charset)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if raw != tc.raw {
				t.Errorf("Encode: expected %q, got %q", tc.raw, raw)
			}
		})
	}
}

func TestEncodeUnrepresentable(t *testing.T) {
	b, sink := newTestBridge(t)

	_, err := b.Encode(unicodeNihon, "ISO-8859-1")
	if !errors.IsCode(err, errors.ErrCodeConversionFailed) {
		t.Fatalf("expected CONVERSION_FAILED, got %v", err)
	}
	if n := len(sink.entries(t)); n != 0 {
		t.Errorf("Encode must not log, got %d entries", n)
	}

	if got := b.ConvertFromUnicode(unicodeNihon, "ISO-8859-1"); got != unicodeNihon {
		t.Errorf("expected input back, got %q", got)
	}
	if n := len(sink.entries(t)); n != 1 {
		t.Errorf("expected one log entry, got %d", n)
	}
}

func TestRoundTrip(t *testing.T) {
	b, sink := newTestBridge(t)

	for _, tc := range []struct{ text, charset string }{
		{latin1Cafe, "ISO-8859-1"},
		{sjisNihon, "Shift_JIS"},
		{"plain ascii", "US-ASCII"},
		{"ünïcödé", ""},
	} {
		got := b.ConvertFromUnicode(b.ConvertToUnicode(tc.text, tc.charset), tc.charset)
		if got != tc.text {
			t.Errorf("round trip through %q: expected %q, got %q", tc.charset, tc.text, got)
		}
	}
	if n := len(sink.entries(t)); n != 0 {
		t.Errorf("expected no failures, got %d log entries", n)
	}
}

func TestRoundTripWithoutCodec(t *testing.T) {
	sink := &logSink{}
	b := NewBridge(WithLocator(di.NewContainer()), WithLogger(sink.logger()))

	got := b.ConvertFromUnicode(b.ConvertToUnicode(latin1Cafe, "ISO-8859-1"), "ISO-8859-1")
	if got != latin1Cafe {
		t.Errorf("expected input back, got %q", got)
	}

	entries := sink.entries(t)
	if len(entries) != 2 {
		t.Fatalf("expected one entry per stage, got %d", len(entries))
	}
	if !strings.Contains(fmt.Sprint(entries[0][logger.FieldError]), string(errors.ErrCodeServiceUnavailable)) {
		t.Errorf("expected SERVICE_UNAVAILABLE detail, got %v", entries[0][logger.FieldError])
	}
}

func TestDefaultCharsetIsUTF8(t *testing.T) {
	b, _ := newTestBridge(t)

	for _, text := range []string{"abc", "héllo", "日本語", "bad\xffbyte"} {
		if b.ConvertToUnicode(text, "") != b.ConvertToUnicode(text, "UTF-8") {
			t.Errorf("empty charset differs from UTF-8 for %q", text)
		}
	}

	var seen string
	custom := NewBridge(
		WithCodecFactory(func() (Codec, error) {
			return &recordingCodec{fakeCodec: &fakeCodec{}, seen: &seen}, nil
		}),
		WithDefaultCharset("windows-1252"),
	)
	custom.ConvertToUnicode("x", "")
	if seen != "windows-1252" {
		t.Errorf("expected configured default charset, got %q", seen)
	}
}

type recordingCodec struct {
	*fakeCodec
	seen *string
}

func (r *recordingCodec) SetCharset(name string) error {
	*r.seen = name
	return r.fakeCodec.SetCharset(name)
}

func TestConvertCharsetComposition(t *testing.T) {
	b, _ := newTestBridge(t)

	cases := []struct{ text, in, out string }{
		{latin1Cafe, "ISO-8859-1", "UTF-8"},
		{sjisNihon, "Shift_JIS", "EUC-JP"},
		{cp1252Euro, "windows-1252", "ISO-8859-15"},
		{"plain", "no-such-charset", "ISO-8859-1"},
		{sjisNihon, "Shift_JIS", "ISO-8859-1"},
	}
	for _, tc := range cases {
		want := b.ConvertFromUnicode(b.ConvertToUnicode(tc.text, tc.in), tc.out)
		if got := b.ConvertCharset(tc.text, tc.in, tc.out); got != want {
			t.Errorf("ConvertCharset(%q, %s, %s) = %q, want %q", tc.text, tc.in, tc.out, got, want)
		}
	}

	if got := b.ConvertCharset(latin1Cafe, "ISO-8859-1", "UTF-8"); got != "café" {
		t.Errorf("expected café, got %q", got)
	}
}

func TestConvertCharsetFallsThroughFailedDecode(t *testing.T) {
	b, sink := newTestBridge(t)

	got := b.ConvertCharset("plain", "no-such-charset", "ISO-8859-1")
	if got != "plain" {
		t.Errorf("expected raw text to be encoded by the second stage, got %q", got)
	}
	entries := sink.entries(t)
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0][logger.FieldOperation] != "ConvertToUnicode" {
		t.Errorf("expected failure in ConvertToUnicode, got %v", entries[0][logger.FieldOperation])
	}
	if entries[0][logger.FieldCharset] != "no-such-charset" {
		t.Errorf("expected charset field, got %v", entries[0][logger.FieldCharset])
	}
}

func TestTranscodeStopsOnFailure(t *testing.T) {
	b, sink := newTestBridge(t)

	if _, err := b.Transcode("plain", "no-such-charset", "UTF-8"); !errors.IsCode(err, errors.ErrCodeUnsupportedCharset) {
		t.Errorf("expected UNSUPPORTED_CHARSET, got %v", err)
	}
	got, err := b.Transcode(sjisNihon, "Shift_JIS", "UTF-8")
	if err != nil || got != unicodeNihon {
		t.Errorf("expected %q, got %q (%v)", unicodeNihon, got, err)
	}
	if n := len(sink.entries(t)); n != 0 {
		t.Errorf("Transcode must not log, got %d entries", n)
	}
}

func TestCodecFailureLogsOnce(t *testing.T) {
	sink := &logSink{}
	codec := &fakeCodec{decodeErr: fmt.Errorf("converter exploded")}
	b := NewBridge(
		WithCodecFactory(func() (Codec, error) { return codec, nil }),
		WithLogger(sink.logger()),
	)

	if got := b.ConvertToUnicode("input", "Big5"); got != "input" {
		t.Errorf("expected input back, got %q", got)
	}

	entries := sink.entries(t)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	if entries[0]["level"] != "error" {
		t.Errorf("expected error level, got %v", entries[0]["level"])
	}
	if !strings.Contains(fmt.Sprint(entries[0][logger.FieldError]), "converter exploded") {
		t.Errorf("expected failure detail in log, got %v", entries[0][logger.FieldError])
	}
}

func TestCodecPanicIsContained(t *testing.T) {
	sink := &logSink{}
	b := NewBridge(
		WithCodecFactory(func() (Codec, error) { return &fakeCodec{panicMsg: "boom"}, nil }),
		WithLogger(sink.logger()),
	)

	if got := b.ConvertToUnicode("input", ""); got != "input" {
		t.Errorf("expected input back, got %q", got)
	}
	entries := sink.entries(t)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	if !strings.Contains(fmt.Sprint(entries[0][logger.FieldError]), "boom") {
		t.Errorf("expected panic value in log, got %v", entries[0][logger.FieldError])
	}
}

func TestMaskedFailuresAreCounted(t *testing.T) {
	reader := metrictest.NewReader(t)
	metrics, err := observability.NewMetrics(reader.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	c := di.NewContainer()
	if err := Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	sink := &logSink{}
	b := NewBridge(WithLocator(c), WithLogger(sink.logger()), WithMetrics(metrics))

	if got := b.ConvertToUnicode("input", "x-klingon"); got != "input" {
		t.Errorf("expected input back, got %q", got)
	}
	if got := b.ConvertFromUnicode(unicodeNihon, "ISO-8859-1"); got != unicodeNihon {
		t.Errorf("expected input back, got %q", got)
	}
	if got := b.ConvertToUnicode(latin1Cafe, "ISO-8859-1"); got != "café" {
		t.Errorf("ConvertToUnicode = %q, want café", got)
	}
	if _, err := b.Decode("input", "x-klingon"); err == nil {
		t.Error("expected Decode to report the unsupported charset")
	}

	component := attribute.String("component", "charset")
	if got := reader.Sum(t, observability.MetricErrorTotal, component); got != 2 {
		t.Errorf("masked failures = %d, want 2", got)
	}
	if got := reader.Sum(t, observability.MetricErrorTotal, component, attribute.String("type", "unsupported_charset")); got != 1 {
		t.Errorf("unsupported charset failures = %d, want 1", got)
	}

	panicky := NewBridge(
		WithCodecFactory(func() (Codec, error) { return &fakeCodec{panicMsg: "boom"}, nil }),
		WithLogger(sink.logger()),
		WithMetrics(metrics),
	)
	panicky.ConvertToUnicode("input", "")
	if got := reader.Sum(t, observability.MetricErrorTotal, attribute.String("type", "internal_error")); got != 1 {
		t.Errorf("panics counted = %d, want 1", got)
	}
}

func TestCodecFactoryError(t *testing.T) {
	b := NewBridge(
		WithCodecFactory(func() (Codec, error) { return nil, fmt.Errorf("no codec") }),
		WithLogger(logger.Nop()),
	)
	_, err := b.Decode("x", "")
	if !errors.IsCode(err, errors.ErrCodeServiceUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
}

func TestEncodeFailureWrapsPlainErrors(t *testing.T) {
	b := NewBridge(
		WithCodecFactory(func() (Codec, error) {
			return &fakeCodec{encodeErr: fmt.Errorf("unmappable")}, nil
		}),
		WithLogger(logger.Nop()),
	)
	_, err := b.Encode("x", "Big5")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeConversionFailed {
		t.Fatalf("expected CONVERSION_FAILED, got %v", err)
	}
	if appErr.Details["charset"] != "Big5" {
		t.Errorf("expected charset detail Big5, got %v", appErr.Details["charset"])
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	t.Cleanup(func() { di.SetDefault(nil) })

	c := di.NewContainer()
	if err := Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	di.SetDefault(c)

	if got := ConvertToUnicode(latin1Cafe, "ISO-8859-1"); got != "café" {
		t.Errorf("ConvertToUnicode: got %q", got)
	}
	if got := ConvertFromUnicode("café", "ISO-8859-1"); got != latin1Cafe {
		t.Errorf("ConvertFromUnicode: got %q", got)
	}
	if got := ConvertCharset(sjisNihon, "Shift_JIS", "UTF-8"); got != unicodeNihon {
		t.Errorf("ConvertCharset: got %q", got)
	}
	if got, err := Decode(latin1Cafe, "latin1"); err != nil || got != "café" {
		t.Errorf("Decode: got %q (%v)", got, err)
	}
	if got, err := Encode("€", "windows-1252"); err != nil || got != cp1252Euro {
		t.Errorf("Encode: got %q (%v)", got, err)
	}
	if got, err := Transcode(latin1Cafe, "ISO-8859-1", "UTF-8"); err != nil || got != "café" {
		t.Errorf("Transcode: got %q (%v)", got, err)
	}

	di.SetDefault(nil)
	if got := ConvertToUnicode(latin1Cafe, "ISO-8859-1"); got != latin1Cafe {
		t.Errorf("expected fallback without a locator, got %q", got)
	}
}
