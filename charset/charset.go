package charset

var std = NewBridge()

// ConvertToUnicode decodes text from charset using the process-wide locator.
// It returns text unchanged if the conversion fails.
func ConvertToUnicode(text, charset string) string {
	return std.ConvertToUnicode(text, charset)
}

// ConvertFromUnicode encodes text to charset using the process-wide locator.
// It returns text unchanged if the conversion fails.
func ConvertFromUnicode(text, charset string) string {
	return std.ConvertFromUnicode(text, charset)
}

// ConvertCharset converts text from inCharset to outCharset with the same
// per-stage fallback as the two functions above.
func ConvertCharset(text, inCharset, outCharset string) string {
	return std.ConvertCharset(text, inCharset, outCharset)
}

// Decode is the error-reporting form of ConvertToUnicode.
func Decode(text, charset string) (string, error) {
	return std.Decode(text, charset)
}

// Encode is the error-reporting form of ConvertFromUnicode.
func Encode(text, charset string) (string, error) {
	return std.Encode(text, charset)
}

// Transcode is the error-reporting form of ConvertCharset.
func Transcode(text, inCharset, outCharset string) (string, error) {
	return std.Transcode(text, inCharset, outCharset)
}
