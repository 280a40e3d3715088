package taxon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArrayBareNumberIsNumber(t *testing.T) {
	v, err := ParseString(`[1,"hello",false]`, 0)
	require.NoError(t, err)
	items, err := v.AsArray()
	require.NoError(t, err)
	require.Len(t, items, 3)

	n, err := items[0].AsNumber()
	require.NoError(t, err)
	assert.Equal(t, float64(1), n, "a bare number token parses as Number, never Integer")

	s, err := items[1].AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	b, err := items[2].AsBool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestParseMissingKeyFailsAtOffset(t *testing.T) {
	// scenario 10: the input ends where a key string must follow ',' inside
	// an object; parsing halts and reports the end-of-input offset.
	_, err := ParseString(`{"x":42,`, 0)
	require.Error(t, err)
	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, int64(8), te.Offset)
}

func TestParseDuplicateKeyRejected(t *testing.T) {
	// testable property 9.
	_, err := ParseString(`{"a":1,"a":2}`, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSemantic)
}

func TestParseNestingLimitDefault(t *testing.T) {
	// testable property 8: 32 levels succeed, the 33rd open fails.
	open := "["
	var sb []byte
	for i := 0; i < 32; i++ {
		sb = append(sb, open...)
	}
	sb = append(sb, "0"...)
	for i := 0; i < 32; i++ {
		sb = append(sb, ']')
	}
	_, err := ParseBytes(sb, 0)
	require.NoError(t, err)

	var deeper []byte
	for i := 0; i < 33; i++ {
		deeper = append(deeper, open...)
	}
	deeper = append(deeper, "0"...)
	for i := 0; i < 33; i++ {
		deeper = append(deeper, ']')
	}
	_, err = ParseBytes(deeper, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSemantic)
}

func TestParseNestingLimitBypass(t *testing.T) {
	const depth = 50_000
	var sb []byte
	for i := 0; i < depth; i++ {
		sb = append(sb, '[')
	}
	sb = append(sb, "null"...)
	for i := 0; i < depth; i++ {
		sb = append(sb, ']')
	}
	v, err := ParseBytes(sb, OptBypassNestingLimit)
	require.NoError(t, err)
	v.Release()
}

func TestParseScenario8AnnotatedObject(t *testing.T) {
	v, err := ParseString(`{"A":"$b:aWVnaHUzQWhndWVqNGVvSg==","B":"$t:987654321"}`, 0)
	require.NoError(t, err)
	entries, err := v.AsObject()
	require.NoError(t, err)

	a, err := entries["A"].AsBinary()
	require.NoError(t, err)
	assert.Equal(t, "ieghu3Ahguej4eoJ", string(a))

	b, err := entries["B"].AsTime()
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), b)
}

func TestParseScenario9StringEscapes(t *testing.T) {
	v, err := ParseString("\"T\\b\\f\\n\\r\\t\\\"\\\\\\/\\ud83d\\ude02\U0001F602\"", OptJSONMode)
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "T\b\f\n\r\t\"\\/\U0001F602\U0001F602", s)
	assert.Len(t, []byte(s), 17)
}

func TestParseStrictJSONModeIgnoresAnnotators(t *testing.T) {
	v, err := ParseString(`"$l:5"`, OptJSONMode)
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "$l:5", s, "OptJSONMode must not interpret annotators")
}

func TestParseRejectsTrailingComma(t *testing.T) {
	_, err := ParseString(`[1,]`, 0)
	require.Error(t, err)

	_, err = ParseString(`{"a":1,}`, 0)
	require.Error(t, err)
}

func TestParseIntoSticky(t *testing.T) {
	ctx := &ParseContext{}
	_, ok := ParseInto(ctx, NewMemorySource([]byte(`{`)), 0)
	assert.False(t, ok)
	require.Error(t, ctx.Err)

	firstErr := ctx.Err
	_, ok = ParseInto(ctx, NewMemorySource([]byte(`1`)), 0)
	assert.False(t, ok)
	assert.Same(t, firstErr, ctx.Err, "a sticky context must not overwrite its first error")
}

func TestParseIntoReturnsValueOnSuccess(t *testing.T) {
	ctx := &ParseContext{}
	v, ok := ParseInto(ctx, NewMemorySource([]byte(`42`)), 0)
	require.True(t, ok)
	n, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, float64(42), n)
}

func TestParseLeadingPlusExtension(t *testing.T) {
	v, err := ParseString(`+5`, 0)
	require.NoError(t, err)
	n, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, float64(5), n)
}

func TestParseRangeErrorOnOverflowInt(t *testing.T) {
	_, err := ParseString(`"$l:99999999999999999999"`, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRange)
}
