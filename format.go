package taxon

import (
	"bytes"
	"io"
	"math"
	"os"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Format serializes v to sink as canonical TAXON (or, with OptJSONMode,
// strict JSON) text: no pretty-printing, no whitespace around structural
// tokens. Like the parser, it drives an explicit heap work-stack rather
// than recursing into itself on nested arrays/objects, so formatting is
// bounded in native stack frames regardless of v's nesting depth.
func Format(v Value, sink Sink, opts Options) error {
	return formatDocument(v, sink, opts)
}

// FormatBytes serializes v and returns the result as a byte slice.
func FormatBytes(v Value, opts Options) ([]byte, error) {
	sink, buf := NewBufferSink()
	if err := formatDocument(v, sink, opts); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// FormatString serializes v and returns the result as a string.
func FormatString(v Value, opts Options) (string, error) {
	b, err := FormatBytes(v, opts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormatWriter serializes v to a generic io.Writer, flushing any
// buffering before returning.
func FormatWriter(w io.Writer, v Value, opts Options) error {
	sink, bw := NewWriterSink(w)
	if err := formatDocument(v, sink, opts); err != nil {
		return err
	}
	return bw.Flush()
}

// FormatFile serializes v to an open file, flushing before returning. The
// library never closes f.
func FormatFile(f *os.File, v Value, opts Options) error {
	return FormatWriter(f, v, opts)
}

type outFrame struct {
	kind  frameKind
	items []Value
	keys  []string
	obj   map[string]Value
	idx   int
}

func sinkErr(err error) error {
	if err == nil {
		return nil
	}
	return newError(EncodingError, -1)
}

// formatDocument walks v with an explicit stack of in-progress
// arrays/objects, emitting bytes to sink as it goes (spec.md §4.4).
func formatDocument(v Value, sink Sink, opts Options) error {
	var stack []*outFrame
	cur, hasCur := v, true

	for {
		if hasCur {
			if err := emitOpen(cur, sink, opts, &stack); err != nil {
				return err
			}
			hasCur = false
			continue
		}
		if len(stack) == 0 {
			return nil
		}
		top := stack[len(stack)-1]
		switch top.kind {
		case frArray:
			if top.idx < len(top.items) {
				if top.idx > 0 {
					if err := sink.WriteByte(','); err != nil {
						return sinkErr(err)
					}
				}
				cur = top.items[top.idx]
				top.idx++
				hasCur = true
				continue
			}
			if err := sink.WriteByte(']'); err != nil {
				return sinkErr(err)
			}
			stack = stack[:len(stack)-1]
		case frObject:
			if top.idx < len(top.keys) {
				if top.idx > 0 {
					if err := sink.WriteByte(','); err != nil {
						return sinkErr(err)
					}
				}
				k := top.keys[top.idx]
				if err := writeQuotedString(sink, k); err != nil {
					return err
				}
				if err := sink.WriteByte(':'); err != nil {
					return sinkErr(err)
				}
				cur = top.obj[k]
				top.idx++
				hasCur = true
				continue
			}
			if err := sink.WriteByte('}'); err != nil {
				return sinkErr(err)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// emitOpen writes v if it is a scalar, or writes its opening bracket/brace
// and (for a non-empty aggregate) pushes a frame to resume iterating it.
func emitOpen(v Value, sink Sink, opts Options, stack *[]*outFrame) error {
	switch v.Tag() {
	case TagArray:
		items, _ := v.AsArray()
		if len(items) == 0 {
			return writeRaw(sink, "[]")
		}
		if err := sink.WriteByte('['); err != nil {
			return sinkErr(err)
		}
		*stack = append(*stack, &outFrame{kind: frArray, items: items})
		return nil
	case TagObject:
		entries, _ := v.AsObject()
		if len(entries) == 0 {
			return writeRaw(sink, "{}")
		}
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		if err := sink.WriteByte('{'); err != nil {
			return sinkErr(err)
		}
		*stack = append(*stack, &outFrame{kind: frObject, obj: entries, keys: keys})
		return nil
	default:
		return writeScalar(v, sink, opts)
	}
}

func writeRaw(sink Sink, s string) error {
	if err := sink.WriteBytes([]byte(s)); err != nil {
		return sinkErr(err)
	}
	return nil
}

// writeScalar emits any non-aggregate Value, applying the strict-JSON
// nullification rules and TAXON annotators described in spec.md §4.4.
func writeScalar(v Value, sink Sink, opts Options) error {
	jsonMode := opts.has(OptJSONMode)

	switch v.Tag() {
	case TagNull:
		return writeRaw(sink, "null")
	case TagBool:
		b, _ := v.AsBool()
		if b {
			return writeRaw(sink, "true")
		}
		return writeRaw(sink, "false")
	case TagInt:
		i, _ := v.AsInt()
		if jsonMode {
			return writeFloatLiteral(sink, float64(i))
		}
		return writeQuotedString(sink, encodeIntAnnotation(i))
	case TagNumber:
		f, _ := v.AsNumber()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			if jsonMode {
				return writeRaw(sink, "null")
			}
			return writeQuotedString(sink, encodeNumberAnnotation(f))
		}
		return writeFloatLiteral(sink, f)
	case TagString:
		s, _ := v.AsString()
		if !jsonMode && len(s) > 0 && s[0] == '$' {
			return writeQuotedString(sink, encodeStringAnnotation(s))
		}
		return writeQuotedString(sink, s)
	case TagBinary:
		if jsonMode {
			return writeRaw(sink, "null")
		}
		b, _ := v.AsBinary()
		return writeQuotedString(sink, encodeBinaryBody(b, opts.has(OptBinAsBase64)))
	case TagTime:
		if jsonMode {
			return writeRaw(sink, "null")
		}
		ms, _ := v.AsTime()
		return writeQuotedString(sink, encodeTimeAnnotation(ms))
	}
	return nil
}

// writeFloatLiteral emits f's shortest round-trip decimal representation,
// bare (no surrounding quotes). f must be finite.
func writeFloatLiteral(sink Sink, f float64) error {
	return writeRaw(sink, strconv.FormatFloat(f, 'g', -1, 64))
}

// writeQuotedString emits s as a double-quoted JSON string, escaping per
// spec.md §4.4: the five named two-character escapes, a backslash before
// `"`, `\` and `/`, literal bytes for the rest of the printable ASCII
// range, and \uXXXX (possibly a surrogate pair) for everything else. A
// byte that does not begin a valid UTF-8 sequence is replaced with
// � and the scan advances one byte, so malformed payloads (string
// contents are not validated on construction) still produce valid output.
func writeQuotedString(sink Sink, s string) error {
	if err := sink.WriteByte('"'); err != nil {
		return sinkErr(err)
	}
	for i := 0; i < len(s); {
		b := s[i]
		switch {
		case b == '"' || b == '\\' || b == '/':
			if err := writeRaw(sink, "\\"+string(b)); err != nil {
				return err
			}
			i++
		case b == '\b':
			if err := writeRaw(sink, `\b`); err != nil {
				return err
			}
			i++
		case b == '\f':
			if err := writeRaw(sink, `\f`); err != nil {
				return err
			}
			i++
		case b == '\n':
			if err := writeRaw(sink, `\n`); err != nil {
				return err
			}
			i++
		case b == '\r':
			if err := writeRaw(sink, `\r`); err != nil {
				return err
			}
			i++
		case b == '\t':
			if err := writeRaw(sink, `\t`); err != nil {
				return err
			}
			i++
		case b >= 0x20 && b <= 0x7E:
			if err := sink.WriteByte(b); err != nil {
				return sinkErr(err)
			}
			i++
		default:
			r, width := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && width <= 1 {
				if err := writeRaw(sink, `\uFFFD`); err != nil {
					return err
				}
				i++
				continue
			}
			for _, unit := range utf16.Encode([]rune{r}) {
				if err := writeRaw(sink, `\u`+hexUpper4(unit)); err != nil {
					return err
				}
			}
			i += width
		}
	}
	if err := sink.WriteByte('"'); err != nil {
		return sinkErr(err)
	}
	return nil
}

const hexDigitsUpper = "0123456789ABCDEF"

func hexUpper4(v uint16) string {
	return string([]byte{
		hexDigitsUpper[(v>>12)&0xF],
		hexDigitsUpper[(v>>8)&0xF],
		hexDigitsUpper[(v>>4)&0xF],
		hexDigitsUpper[v&0xF],
	})
}
