package taxon

import (
	"io"
	"os"
	"strconv"
)

// Options is a bitset controlling parser and formatter behavior (spec.md
// §6.3).
type Options uint8

const (
	// OptJSONMode requests strict-JSON input interpretation (annotations are
	// not recognized; plain quoted strings only) and strict-JSON output
	// (non-finite numbers, binary and time become null; integers are
	// emitted as bare decimal floats).
	OptJSONMode Options = 1 << iota
	// OptBinAsBase64 forces the formatter to always emit binary payloads as
	// "$b:" base64 rather than choosing hex for short, hash-like lengths.
	OptBinAsBase64
	// OptBypassNestingLimit disables the default 32-deep nesting limit.
	// Only use this for trusted input.
	OptBypassNestingLimit
)

func (o Options) has(flag Options) bool { return o&flag != 0 }

// DefaultNestingLimit is the default maximum depth of nested arrays/objects
// a parse will accept (spec.md §4.3.3, testable property 8).
const DefaultNestingLimit = 32

// ParseContext carries a parse's outcome for the parse_with-style entry
// points: Offset is the byte offset of the token that failed (-1 if no
// error, or if the error has no associated offset), Err is the sticky
// first error encountered. Once Err is set, further calls to ParseInto
// using the same context are a no-op (spec.md §7, "propagation policy").
type ParseContext struct {
	Offset int64
	Err    error
}

func (c *ParseContext) fail(err error) {
	if c.Err != nil {
		return
	}
	c.Err = err
	c.Offset = -1
	if e, ok := err.(*Error); ok {
		c.Offset = e.Offset
	}
}

// Parse parses a complete TAXON (or, with OptJSONMode, strict-JSON) value
// from src. It discards error detail; use ParseInto for offset/kind
// reporting.
func Parse(src Source, opts Options) (Value, bool) {
	v, err := parseDocument(src, opts)
	return v, err == nil
}

// ParseInto parses src, reporting detailed failure information through
// ctx. It returns the parsed value and true on success. If ctx already
// holds an error from a previous call, ParseInto returns false immediately
// without touching src (errors are sticky; spec.md §7).
func ParseInto(ctx *ParseContext, src Source, opts Options) (Value, bool) {
	if ctx.Err != nil {
		return Value{}, false
	}
	v, err := parseDocument(src, opts)
	if err != nil {
		ctx.fail(err)
		return Value{}, false
	}
	ctx.Offset = -1
	return v, true
}

// ParseBytes parses a complete value from a byte slice.
func ParseBytes(b []byte, opts Options) (Value, error) {
	return parseDocument(NewMemorySource(b), opts)
}

// ParseString parses a complete value from a string.
func ParseString(s string, opts Options) (Value, error) {
	return parseDocument(NewMemorySource([]byte(s)), opts)
}

// ParseReader parses a complete value from a generic io.Reader.
func ParseReader(r io.Reader, opts Options) (Value, error) {
	return parseDocument(NewReaderSource(r), opts)
}

// ParseFile parses a complete value from an open file.
func ParseFile(f *os.File, opts Options) (Value, error) {
	return parseDocument(NewFileSource(f), opts)
}

// ParseValue is the fully-reporting entry point: it returns both the
// parsed value (valid only if err == nil) and a *Error with Kind/Offset on
// failure.
func ParseValue(src Source, opts Options) (Value, error) {
	return parseDocument(src, opts)
}

// pstate is the value-builder's current expectation.
type pstate int

const (
	sValue           pstate = iota // expect a value to start
	sArrayOpen                     // just saw '[': expect ']' or a value
	sArrayComma                    // just finished an array element: expect ',' or ']'
	sObjectOpen                    // just saw '{': expect '}' or a key string
	sObjectKey                     // just saw ',' in an object: expect a key string
	sObjectColon                   // just read a key: expect ':'
	sObjectComma                   // just finished a member: expect ',' or '}'
)

type frameKind int

const (
	frArray frameKind = iota
	frObject
)

// frame is one in-progress aggregate on the parser's heap work-stack
// (spec.md §4.3.3). Using a Go slice here (rather than a fixed array, as
// the teacher's json.go parser does) is what lets nesting grow past a
// small compile-time bound when OptBypassNestingLimit is set.
type frame struct {
	kind  frameKind
	items []Value
	obj   Value
	key   string
}

// parseDocument drives the tokenizer and an explicit work-stack of frames
// to build a single Value, never recursing on nested arrays/objects.
func parseDocument(src Source, opts Options) (Value, error) {
	tok := newTokenizer(src)
	var stack []*frame
	state := sValue
	limit := DefaultNestingLimit
	bypass := opts.has(OptBypassNestingLimit)

	push := func(k frameKind, offset int64) error {
		if !bypass && len(stack)+1 > limit {
			return newError(SemanticError, offset)
		}
		f := &frame{kind: k}
		if k == frObject {
			f.obj = EmptyObject()
		}
		stack = append(stack, f)
		return nil
	}

	// attach finishes value v into whatever the current stack top expects,
	// or reports it as the final top-level result. offset is used only to
	// annotate a duplicate-key error with the position of the token that
	// revealed it.
	attach := func(v Value, offset int64) (result Value, done bool, next pstate, err error) {
		if len(stack) == 0 {
			return v, true, sValue, nil
		}
		top := stack[len(stack)-1]
		switch top.kind {
		case frArray:
			top.items = append(top.items, v)
			return Value{}, false, sArrayComma, nil
		case frObject:
			if err := top.obj.insertUnique(top.key, v, offset); err != nil {
				return Value{}, false, sValue, err
			}
			return Value{}, false, sObjectComma, nil
		}
		return Value{}, false, sValue, newError(SyntaxStructural, offset)
	}

	// closeTop pops the current frame into a finished Value.
	closeTop := func() Value {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.kind == frArray {
			return Array(f.items)
		}
		return f.obj
	}

	for {
		tk, err := tok.next()
		if err != nil {
			return Value{}, err
		}
		if tk.kind == tokEOF {
			return Value{}, newError(SyntaxStructural, tk.offset)
		}

		switch state {
		case sArrayOpen:
			if tk.kind == tokRBracket {
				v := closeTop()
				res, done, next, err := attach(v, tk.offset)
				if err != nil {
					return Value{}, err
				}
				if done {
					return res, nil
				}
				state = next
				continue
			}
			fallthrough

		case sValue:
			v, started, err := startValue(tk, opts)
			if err != nil {
				return Value{}, err
			}
			switch started {
			case startArray:
				if err := push(frArray, tk.offset); err != nil {
					return Value{}, err
				}
				state = sArrayOpen
			case startObject:
				if err := push(frObject, tk.offset); err != nil {
					return Value{}, err
				}
				state = sObjectOpen
			default:
				res, done, next, err := attach(v, tk.offset)
				if err != nil {
					return Value{}, err
				}
				if done {
					return res, nil
				}
				state = next
			}

		case sArrayComma:
			switch tk.kind {
			case tokComma:
				state = sValue
			case tokRBracket:
				v := closeTop()
				res, done, next, err := attach(v, tk.offset)
				if err != nil {
					return Value{}, err
				}
				if done {
					return res, nil
				}
				state = next
			default:
				return Value{}, newError(SyntaxStructural, tk.offset)
			}

		case sObjectOpen:
			if tk.kind == tokRBrace {
				v := closeTop()
				res, done, next, err := attach(v, tk.offset)
				if err != nil {
					return Value{}, err
				}
				if done {
					return res, nil
				}
				state = next
				continue
			}
			fallthrough

		case sObjectKey:
			if tk.kind != tokString {
				return Value{}, newError(SyntaxStructural, tk.offset)
			}
			stack[len(stack)-1].key = tk.text
			state = sObjectColon

		case sObjectColon:
			if tk.kind != tokColon {
				return Value{}, newError(SyntaxStructural, tk.offset)
			}
			state = sValue

		case sObjectComma:
			switch tk.kind {
			case tokComma:
				state = sObjectKey
			case tokRBrace:
				v := closeTop()
				res, done, next, err := attach(v, tk.offset)
				if err != nil {
					return Value{}, err
				}
				if done {
					return res, nil
				}
				state = next
			default:
				return Value{}, newError(SyntaxStructural, tk.offset)
			}
		}
	}
}

type startKind int

const (
	startScalar startKind = iota
	startArray
	startObject
)

// startValue interprets one token as the beginning of a value: a scalar
// (possibly decoded via an annotator), or the opening of an array/object
// frame.
func startValue(tk token, opts Options) (Value, startKind, error) {
	switch tk.kind {
	case tokLBracket:
		return Value{}, startArray, nil
	case tokLBrace:
		return Value{}, startObject, nil
	case tokString:
		if !opts.has(OptJSONMode) {
			if v, matched, err := tryParseAnnotation(tk.text); matched {
				if err != nil {
					if e, ok := err.(*Error); ok && e.Offset == -1 {
						e.Offset = tk.offset
					}
					return Value{}, startScalar, err
				}
				return v, startScalar, nil
			}
		}
		return String(tk.text), startScalar, nil
	case tokNumber:
		f, err := strconv.ParseFloat(tk.text, 64)
		if err != nil {
			if isRangeErr(err) {
				return Value{}, startScalar, newError(RangeError, tk.offset)
			}
			return Value{}, startScalar, newError(SyntaxLexical, tk.offset)
		}
		return Number(f), startScalar, nil
	case tokIdent:
		switch tk.text {
		case "null":
			return Null(), startScalar, nil
		case "true":
			return Bool(true), startScalar, nil
		case "false":
			return Bool(false), startScalar, nil
		default:
			return Value{}, startScalar, newError(SyntaxStructural, tk.offset)
		}
	default:
		return Value{}, startScalar, newError(SyntaxStructural, tk.offset)
	}
}
