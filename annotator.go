package taxon

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
)

// An annotator is a string token whose content begins with "$<letter>:" and
// carries a type TAXON's JSON-compatible string alternative can't represent
// on its own (spec.md §4.3.3, §6.2).

func isAnnotatorLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// tryParseAnnotation inspects a decoded string token's text. matched is
// false when text does not have the "$<letter>:" shape at all, in which
// case it is an ordinary string and err is always nil. matched is true for
// any "$<letter>:" shape, including an unrecognized letter, which is then
// reported as a SyntaxAnnotator error.
func tryParseAnnotation(text string) (value Value, matched bool, err error) {
	if len(text) < 3 || text[0] != '$' || text[2] != ':' || !isAnnotatorLetter(text[1]) {
		return Value{}, false, nil
	}

	body := text[3:]
	switch text[1] {
	case 'l':
		v, err := parseIntAnnotation(body)
		return v, true, err
	case 'd':
		v, err := parseNumberAnnotation(body)
		return v, true, err
	case 's':
		return String(body), true, nil
	case 't':
		v, err := parseTimeAnnotation(body)
		return v, true, err
	case 'h':
		v, err := parseHexAnnotation(body)
		return v, true, err
	case 'b':
		v, err := parseBase64Annotation(body)
		return v, true, err
	default:
		return Value{}, true, newError(SyntaxAnnotator, -1)
	}
}

func parseIntAnnotation(body string) (Value, error) {
	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		if isRangeErr(err) {
			return Value{}, newError(RangeError, -1)
		}
		return Value{}, newError(SyntaxAnnotator, -1)
	}
	return Int(n), nil
}

func parseNumberAnnotation(body string) (Value, error) {
	f, err := strconv.ParseFloat(body, 64)
	if err != nil && !isRangeErr(err) {
		return Value{}, newError(SyntaxAnnotator, -1)
	}
	// A range error from ParseFloat still yields a correctly signed ±Inf;
	// spec.md §4.3.3 treats an out-of-range $d body as ±Inf, never an error.
	return Number(f), nil
}

func parseTimeAnnotation(body string) (Value, error) {
	ms, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		if isRangeErr(err) {
			return Value{}, newError(RangeError, -1)
		}
		return Value{}, newError(SyntaxAnnotator, -1)
	}
	v, err := Time(ms)
	if err != nil {
		return Value{}, newError(RangeError, -1)
	}
	return v, nil
}

func parseHexAnnotation(body string) (Value, error) {
	if len(body)%2 != 0 {
		return Value{}, newError(SyntaxAnnotator, -1)
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return Value{}, newError(SyntaxAnnotator, -1)
	}
	return Binary(b), nil
}

func parseBase64Annotation(body string) (Value, error) {
	if err := validateBase64Padding(body); err != nil {
		return Value{}, err
	}
	b, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return Value{}, newError(SyntaxAnnotator, -1)
	}
	return Binary(b), nil
}

// validateBase64Padding enforces spec.md §4.3.3's base64 body shape:
// length divisible by 4, with '=' only possibly appearing in the final
// quad, only at position 3 and/or 4 (1-indexed), and a '=' at position 3
// implying one at position 4.
func validateBase64Padding(body string) error {
	if len(body)%4 != 0 {
		return newError(SyntaxAnnotator, -1)
	}
	for i := 0; i < len(body); i++ {
		if body[i] != '=' {
			continue
		}
		posInQuad := i % 4
		if posInQuad < 2 {
			return newError(SyntaxAnnotator, -1)
		}
		if i < len(body)-4 {
			return newError(SyntaxAnnotator, -1)
		}
	}
	if n := len(body); n >= 2 && body[n-2] == '=' && body[n-1] != '=' {
		return newError(SyntaxAnnotator, -1)
	}
	return nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// encodeBinaryBody chooses between "$h:"+hex and "$b:"+base64 for a binary
// payload, per spec.md §4.4 / testable property 10: hex is preferred for
// byte lengths that look like short hashes, identifiers or UUIDs (<=4 bytes,
// or a multiple of 4 bytes up to 32), unless preferBase64 forces base64
// always.
func encodeBinaryBody(b []byte, preferBase64 bool) string {
	n := len(b)
	looksShort := n <= 4 || (n%4 == 0 && n/4 <= 8)
	if !preferBase64 && looksShort {
		return "$h:" + hex.EncodeToString(b)
	}
	return "$b:" + base64.StdEncoding.EncodeToString(b)
}

// encodeIntAnnotation formats an integer as its "$l:" annotation body.
func encodeIntAnnotation(i int64) string {
	return "$l:" + strconv.FormatInt(i, 10)
}

// encodeNumberAnnotation formats a non-finite number as its "$d:"
// annotation body; finite numbers are never routed through here (they are
// emitted bare, see format.go).
func encodeNumberAnnotation(f float64) string {
	switch {
	case math.IsNaN(f):
		return "$d:nan"
	case f > 0:
		return "$d:inf"
	default:
		return "$d:-inf"
	}
}

// encodeTimeAnnotation formats a timestamp as its "$t:" annotation body.
func encodeTimeAnnotation(ms int64) string {
	return "$t:" + strconv.FormatInt(ms, 10)
}

// encodeStringAnnotation wraps a string whose own content begins with '$'
// so it round-trips instead of being mistaken for an annotation.
func encodeStringAnnotation(s string) string {
	return "$s:" + s
}
