package charset

import (
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/kbukum/hostkit/errors"
)

// DefaultCharset is used whenever a caller passes an empty charset name.
const DefaultCharset = "UTF-8"

// Codec is the host codec service contract. The active charset is mutable
// state, so a Codec must not be shared between concurrent conversions.
type Codec interface {
	// SetCharset selects the charset used by the conversions.
	SetCharset(name string) error
	// Charset returns the active charset name.
	Charset() string
	// ConvertToUnicode decodes text from the active charset.
	ConvertToUnicode(text string) (string, error)
	// ConvertFromUnicode encodes Unicode text into the active charset.
	ConvertFromUnicode(text string) (string, error)
}

// TextCodec is the default Codec, backed by the golang.org/x/text tables.
type TextCodec struct {
	mu   sync.RWMutex
	name string
	enc  encoding.Encoding
}

var _ Codec = (*TextCodec)(nil)

// NewTextCodec returns a codec whose active charset is UTF-8.
func NewTextCodec() *TextCodec {
	enc, name, _ := Lookup(DefaultCharset)
	return &TextCodec{name: name, enc: enc}
}

// Lookup resolves a charset label to an encoding and its canonical name.
// IANA names and aliases are tried first, then WHATWG labels.
func Lookup(label string) (encoding.Encoding, string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, "", errors.UnsupportedCharset(label)
	}

	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc, canonicalName(enc, label), nil
	}

	if enc, err := htmlindex.Get(label); err == nil {
		name, nerr := htmlindex.Name(enc)
		if nerr != nil {
			name = label
		}
		return enc, name, nil
	}

	return nil, "", errors.UnsupportedCharset(label)
}

// canonicalName prefers the MIME name, then the IANA name.
func canonicalName(enc encoding.Encoding, label string) string {
	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return name
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil && name != "" {
		return name
	}
	return label
}

// Supported reports whether label names a known charset.
func Supported(label string) bool {
	_, _, err := Lookup(label)
	return err == nil
}

// SetCharset implements Codec.
func (c *TextCodec) SetCharset(name string) error {
	enc, canonical, err := Lookup(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = canonical
	c.enc = enc
	return nil
}

// Charset implements Codec.
func (c *TextCodec) Charset() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// ConvertToUnicode implements Codec.
func (c *TextCodec) ConvertToUnicode(text string) (string, error) {
	c.mu.RLock()
	enc, name := c.enc, c.name
	c.mu.RUnlock()

	out, err := enc.NewDecoder().String(text)
	if err != nil {
		return "", errors.ConversionFailed(opDecode, name, err)
	}
	return out, nil
}

// ConvertFromUnicode implements Codec.
func (c *TextCodec) ConvertFromUnicode(text string) (string, error) {
	c.mu.RLock()
	enc, name := c.enc, c.name
	c.mu.RUnlock()

	out, err := enc.NewEncoder().String(text)
	if err != nil {
		return "", errors.ConversionFailed(opEncode, name, err)
	}
	return out, nil
}
