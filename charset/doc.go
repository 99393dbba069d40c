// Package charset converts text between named character encodings and
// Unicode by forwarding to a codec service resolved from the host's service
// locator.
//
// Text in a legacy encoding travels as a Go string holding the raw bytes;
// Unicode text is UTF-8. The best-effort functions never fail: on any error
// they log one entry and hand back their input.
//
//	utf8 := charset.ConvertToUnicode(raw, "Shift_JIS")
//	out := charset.ConvertCharset(raw, "ISO-8859-1", "windows-1252")
//
// Decode, Encode and Transcode perform the same conversions but report
// failures as *errors.AppError instead of masking them.
package charset
