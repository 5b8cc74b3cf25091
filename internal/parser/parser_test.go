package parser

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonlayer/internal/errors"
	"github.com/mcncl/jsonlayer/internal/formatter"
	"github.com/mcncl/jsonlayer/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	v, err := Parse(strings.NewReader(`{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`))
	require.NoError(t, err)

	obj, ok := v.(*models.Object)
	require.True(t, ok, "root is %T, want *models.Object", v)
	assert.Equal(t, []string{"name", "age", "isStudent", "city"}, obj.Keys())

	want := models.NewObject()
	want.Set("name", models.String("John Doe"))
	want.Set("age", models.Number(30))
	want.Set("isStudent", models.Bool(false))
	want.Set("city", models.Null{})
	assert.True(t, models.Equal(want, v))
}

func TestParse_SimpleArray(t *testing.T) {
	v, err := ParseString(` [1, "test", true, null, 3.14] `)
	require.NoError(t, err)

	want := models.NewArray(models.Number(1), models.String("test"), models.Bool(true), models.Null{}, models.Number(3.14))
	assert.True(t, models.Equal(want, v))
}

func TestParse_DuplicateKeysKeepFirstPosition(t *testing.T) {
	v, err := ParseString(`{"a":1,"b":2,"a":3}`)
	require.NoError(t, err)

	obj := v.(*models.Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	got, _ := obj.Get("a")
	assert.Equal(t, models.Number(3), got)
}

func TestParse_RootPrimitives(t *testing.T) {
	testCases := []struct {
		name     string
		jsonStr  string
		expected models.Value
	}{
		{"RootString", `"hello world"`, models.String("hello world")},
		{"RootNumber", `123.45`, models.Number(123.45)},
		{"RootBooleanTrue", `true`, models.Bool(true)},
		{"RootBooleanFalse", `false`, models.Bool(false)},
		{"RootNull", `null`, models.Null{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ParseString(tc.jsonStr)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestParse_Numbers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind models.Kind
		wantText string
	}{
		{"max safe integer", "9007199254740991", models.KindNumber, "9007199254740991"},
		{"beyond safe range", "9007199254740993", models.KindBigInt, "9007199254740993"},
		{"negative beyond safe range", "-9007199254740993", models.KindBigInt, "-9007199254740993"},
		{"huge", "123456789012345678901234567890", models.KindBigInt, "123456789012345678901234567890"},
		{"fraction", "0.1", models.KindNumber, "0.1"},
		{"exponent", "2E3", models.KindNumber, "2000"},
		{"integral with exponent stays float", "9007199254740993e0", models.KindNumber, "9.007199254740992e+15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, v.Kind())

			text, err := formatter.Compact(v)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestParse_NegativeZero(t *testing.T) {
	v, err := ParseString("-0")
	require.NoError(t, err)

	n, ok := v.(models.Number)
	require.True(t, ok)
	assert.True(t, math.Signbit(float64(n)))
}

func TestParse_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple escapes", `"a\"b\\c\/d\n\t"`, "a\"b\\c/d\n\t"},
		{"unicode escape", `"caf\u00e9"`, "café"},
		{"raw utf8", `"日本"`, "日本"},
		{"surrogate pair", `"\ud83d\ude00"`, "\U0001F600"},
		{"lone high surrogate", `"\ud83d"`, "\uFFFD"},
		{"high surrogate then text", `"\ud83dx"`, "\uFFFDx"},
		{"high surrogate then non-surrogate escape", `"\ud83d\u0041"`, "\uFFFDA"},
		{"lone low surrogate", `"\ude00"`, "\uFFFD"},
		{"raw control character", "\"a\tb\"", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, models.String(tt.want), v)
		})
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset int
		wantMsg    string
	}{
		{"empty", "", 0, "unexpected end of input"},
		{"whitespace only", "  \n", 3, "unexpected end of input"},
		{"trailing comma in object", `{"a":1,}`, 7, "expected string for object key"},
		{"missing colon", `{"a" 1}`, 5, "expected ':' after object key"},
		{"unterminated array", `[1,2`, 4, "unterminated array"},
		{"unterminated string", `["abc`, 1, "unterminated string"},
		{"bad literal", `tru`, 0, `invalid literal, expected "true"`},
		{"leading zero", `012`, 1, "unexpected trailing data"},
		{"lone minus", `-`, 1, "unexpected end of input in number"},
		{"bare fraction", `1.`, 2, "expected digit after decimal point"},
		{"bare exponent", `1e+`, 3, "expected digit in exponent"},
		{"bad escape", `"\x"`, 2, `invalid escape character 'x' in string`},
		{"short unicode escape", `"\u12"`, 2, "invalid unicode escape"},
		{"trailing data", `[1] 2`, 4, "unexpected trailing data"},
		{"single quotes", `'a'`, 0, `invalid character '\'' looking for beginning of value`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidJSON)
			assert.Equal(t, errors.ErrorTypeParsing, errors.TypeOf(err))

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantOffset, se.Offset)
			assert.Equal(t, tt.wantMsg, se.Msg)
		})
	}
}

func TestParse_NestingDepth(t *testing.T) {
	t.Run("deep nesting is an error", func(t *testing.T) {
		for _, open := range []string{"[", `{"a":`} {
			_, err := ParseString(strings.Repeat(open, 20000))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidJSON)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "exceeded max nesting depth of 10000", se.Msg)
			assert.Equal(t, MaxDepth*len(open), se.Offset)
		}
	})

	t.Run("limit itself is accepted", func(t *testing.T) {
		text := strings.Repeat("[", MaxDepth) + strings.Repeat("]", MaxDepth)
		v, err := ParseString(text)
		require.NoError(t, err)
		assert.True(t, models.IsContainer(v))
	})

	t.Run("siblings do not add up", func(t *testing.T) {
		deep := strings.Repeat("[", MaxDepth-1) + strings.Repeat("]", MaxDepth-1)
		_, err := ParseString("[" + deep + "," + deep + "]")
		assert.NoError(t, err)
	})
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		`{"z":1,"a":[true,false,null],"m":{"x":"y"}}`,
		`[9007199254740993,-1.5,1e+21,"\u0001"]`,
		`{}`,
		`[[],{}]`,
	}

	for _, in := range inputs {
		v, err := ParseString(in)
		require.NoError(t, err)
		out, err := formatter.Compact(v)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestParseFile_SimpleObject(t *testing.T) {
	file := filepath.Join(t.TempDir(), "simple.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"product": "Laptop", "price": 1200.50}`), 0o644))

	v, err := ParseFile(file)
	require.NoError(t, err)

	price, ok := models.Resolve(v, models.NewPath("price"))
	require.True(t, ok)
	assert.Equal(t, models.Number(1200.5), price)
}

func TestParseFile_Errors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty path", "  ", errors.ErrInvalidFilePath},
		{"non-existent file", filepath.Join(t.TempDir(), "missing.json"), errors.ErrFileNotFound},
		{"empty file", empty, errors.ErrFileEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, errors.ErrorTypeInput, errors.TypeOf(err))
		})
	}
}

func TestParseEmbedded(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"object", `{"a":1}`, true},
		{"array with padding", "  \n[1, 2]\t", true},
		{"empty object", `{}`, true},
		{"quoted string", `"text"`, false},
		{"number", `42`, false},
		{"plain text", `hello`, false},
		{"empty", ``, false},
		{"broken object", `{"a":`, false},
		{"object then garbage", `{} x`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseEmbedded(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, models.IsContainer(v))
			} else {
				assert.Nil(t, v)
			}
			assert.Equal(t, tt.ok, IsJSONString(models.String(tt.text)))
		})
	}

	assert.False(t, IsJSONString(models.Number(1)))
}
