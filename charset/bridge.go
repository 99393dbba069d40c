package charset

import (
	"context"
	"fmt"

	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/observability"
)

const (
	opDecode = "decode"
	opEncode = "encode"
)

// CodecFactory returns a codec for a single conversion.
type CodecFactory func() (Codec, error)

// Bridge forwards conversions to a codec service. The zero value is not
// usable; construct one with NewBridge.
type Bridge struct {
	locator        func() di.Container
	factory        CodecFactory
	log            func() *logger.Logger
	metrics        *observability.Metrics
	defaultCharset string
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLocator resolves codecs from c instead of the process-wide locator.
func WithLocator(c di.Container) Option {
	return func(b *Bridge) {
		b.locator = func() di.Container { return c }
	}
}

// WithCodecFactory bypasses the locator and takes codecs from f.
func WithCodecFactory(f CodecFactory) Option {
	return func(b *Bridge) { b.factory = f }
}

// WithLogger sets the logger that receives conversion failures.
func WithLogger(l *logger.Logger) Option {
	return func(b *Bridge) {
		b.log = func() *logger.Logger { return l }
	}
}

// WithMetrics counts the failures that the best-effort conversions mask.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// WithDefaultCharset changes the charset used when a caller passes "".
func WithDefaultCharset(name string) Option {
	return func(b *Bridge) {
		if name != "" {
			b.defaultCharset = name
		}
	}
}

// NewBridge returns a bridge. Without options it resolves codecs from
// di.Default() and logs through the "charset" logger at call time.
func NewBridge(opts ...Option) *Bridge {
	b := &Bridge{
		locator:        di.Default,
		log:            func() *logger.Logger { return logger.Get("charset") },
		defaultCharset: DefaultCharset,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Decode converts text from charset to Unicode.
func (b *Bridge) Decode(text, charset string) (string, error) {
	codec, err := b.prepare(charset)
	if err != nil {
		return "", err
	}
	out, err := codec.ConvertToUnicode(text)
	if err != nil {
		return "", conversionError(opDecode, codec.Charset(), err)
	}
	return out, nil
}

// Encode converts Unicode text to charset.
func (b *Bridge) Encode(text, charset string) (string, error) {
	codec, err := b.prepare(charset)
	if err != nil {
		return "", err
	}
	out, err := codec.ConvertFromUnicode(text)
	if err != nil {
		return "", conversionError(opEncode, codec.Charset(), err)
	}
	return out, nil
}

// Transcode decodes text from in and encodes the result to out, stopping at
// the first failure.
func (b *Bridge) Transcode(text, in, out string) (string, error) {
	unicode, err := b.Decode(text, in)
	if err != nil {
		return "", err
	}
	return b.Encode(unicode, out)
}

// ConvertToUnicode decodes text from charset (UTF-8 when empty). On failure
// it logs one error entry and returns text unchanged.
func (b *Bridge) ConvertToUnicode(text, charset string) string {
	return b.bestEffort("ConvertToUnicode", text, charset, b.Decode)
}

// ConvertFromUnicode encodes text to charset (UTF-8 when empty). On failure
// it logs one error entry and returns text unchanged.
func (b *Bridge) ConvertFromUnicode(text, charset string) string {
	return b.bestEffort("ConvertFromUnicode", text, charset, b.Encode)
}

// bestEffort runs convert and masks both errors and codec panics.
func (b *Bridge) bestEffort(op, text, charset string, convert func(text, charset string) (string, error)) (out string) {
	defer func() {
		if r := recover(); r != nil {
			b.logFailure(op, b.resolve(charset), errors.Internal(fmt.Errorf("codec panic: %v", r)))
			out = text
		}
	}()

	out, err := convert(text, charset)
	if err != nil {
		b.logFailure(op, b.resolve(charset), err)
		return text
	}
	return out
}

// ConvertCharset is ConvertFromUnicode(ConvertToUnicode(text, in), out).
// Each stage falls back on its own, so a failed decode feeds the original
// bytes to the encode stage.
func (b *Bridge) ConvertCharset(text, in, out string) string {
	return b.ConvertFromUnicode(b.ConvertToUnicode(text, in), out)
}

func (b *Bridge) resolve(charset string) string {
	if charset == "" {
		return b.defaultCharset
	}
	return charset
}

// prepare acquires a codec and sets its active charset.
func (b *Bridge) prepare(charset string) (Codec, error) {
	codec, err := b.codec()
	if err != nil {
		return nil, err
	}
	name := b.resolve(charset)
	if err := codec.SetCharset(name); err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.UnsupportedCharset(name).WithCause(err)
	}
	return codec, nil
}

func (b *Bridge) codec() (Codec, error) {
	if b.factory != nil {
		codec, err := b.factory()
		if err != nil {
			return nil, errors.ServiceUnavailable("unicode converter").WithCause(err)
		}
		return codec, nil
	}

	codec, err := di.Resolve[Codec](b.locator(), di.Contracts.UnicodeConverter)
	if err != nil {
		return nil, errors.ServiceUnavailable("unicode converter").WithCause(err)
	}
	return codec, nil
}

func (b *Bridge) logFailure(op, charset string, err error) {
	fields := logger.ErrorFields(op, err)
	fields[logger.FieldCharset] = charset
	b.log().Error("charset conversion failed", fields)
	b.metrics.RecordError(context.Background(), observability.ErrorType(err), "charset")
}

func conversionError(op, charset string, err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.ConversionFailed(op, charset, err)
}

// Register installs NewTextCodec as a factory for the unicode converter
// contract, so every resolve yields a codec with its own active charset.
func Register(c di.Container) error {
	return c.RegisterFactory(di.Contracts.UnicodeConverter, func() Codec {
		return NewTextCodec()
	})
}
