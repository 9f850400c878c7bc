package protocol

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Request
	}{
		{
			name: "multibulk set",
			raw:  "*3\r\n$3\r\nset\r\n$3\r\nkey\r\n$5\r\nvalue\r\n",
			want: Request{Name: "set", Args: []string{"key", "value"}, Kind: KindArray},
		},
		{
			name: "multibulk without args",
			raw:  "*1\r\n$4\r\nPING\r\n",
			want: Request{Name: "PING", Args: []string{}, Kind: KindArray},
		},
		{
			name: "multibulk with empty and binary-ish bulk",
			raw:  "*3\r\n$3\r\nset\r\n$0\r\n\r\n$4\r\na\r\nb\r\n",
			want: Request{Name: "set", Args: []string{"", "a\r\nb"}, Kind: KindArray},
		},
		{
			name: "multibulk with bare newlines",
			raw:  "*2\n$3\nget\n$1\nk\n",
			want: Request{Name: "get", Args: []string{"k"}, Kind: KindArray},
		},
		{
			name: "inline",
			raw:  "SET  mykey myval\r\n",
			want: Request{Name: "SET", Args: []string{"mykey", "myval"}, Kind: KindUnknown},
		},
		{
			name: "inline without terminator",
			raw:  "dbsize",
			want: Request{Name: "dbsize", Args: []string{}, Kind: KindUnknown},
		},
		{
			name: "integer marker",
			raw:  ":5 x\r\n",
			want: Request{Name: ":5", Args: []string{"x"}, Kind: KindInteger},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.ElementsMatch(t, tt.want.Args, got.Args)
			assert.Len(t, got.Args, len(tt.want.Args))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		raw  string
		want error
	}{
		{"", ErrEmpty},
		{"\r\n", ErrEmpty},
		{"   \r\n", ErrEmpty},
		{"*0\r\n", ErrEmpty},
		{"*", ErrMalformed},
		{"*\r\n", ErrMalformed},
		{"*x\r\n", ErrMalformed},
		{"*-1\r\n", ErrMalformed},
		{"*2\r\n$3\r\nget\r\n", ErrMalformed},
		{"*1\r\n:3\r\n", ErrMalformed},
		{"*1\r\n$\r\n", ErrMalformed},
		{"*1\r\n$-1\r\n", ErrMalformed},
		{"*1\r\n$10\r\nshort\r\n", ErrMalformed},
		{"*1\r\n$3\r\ngetX\r\n", ErrMalformed},
		{"*99999999999\r\n", ErrMalformed},
	}

	for _, tt := range tests {
		_, err := Decode([]byte(tt.raw))
		assert.ErrorIs(t, err, tt.want, "raw=%q", tt.raw)
	}
}

func TestDecodeNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []byte("*$:+-\r\n0123456789abc ")
	seed := []byte("*3\r\n$3\r\nset\r\n$1\r\nk\r\n$1\r\nv\r\n")

	for i := 0; i < 20000; i++ {
		var raw []byte
		if i%2 == 0 {
			// мутация валидного сообщения
			raw = append([]byte(nil), seed...)
			for j := 0; j < 1+rng.Intn(4); j++ {
				raw[rng.Intn(len(raw))] = alphabet[rng.Intn(len(alphabet))]
			}
			raw = raw[:rng.Intn(len(raw)+1)]
		} else {
			raw = make([]byte, rng.Intn(24))
			for j := range raw {
				raw[j] = alphabet[rng.Intn(len(alphabet))]
			}
		}

		assert.NotPanics(t, func() {
			_, _ = Decode(raw)
			_ = CommandToken(raw)
		}, "raw=%q", raw)
	}
}

func TestCommandToken(t *testing.T) {
	assert.Equal(t, "get", CommandToken([]byte("*2\r\n$3\r\nget\r\n$10\r\nbroken")))
	assert.Equal(t, "foo", CommandToken([]byte("foo bar\r\n")))
	assert.Equal(t, "", CommandToken([]byte("*1\r\n")))
	assert.Equal(t, "", CommandToken(nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindArray, KindOf('*'))
	assert.Equal(t, KindBulkString, KindOf('$'))
	assert.Equal(t, KindInteger, KindOf(':'))
	assert.Equal(t, KindSimpleString, KindOf('+'))
	assert.Equal(t, KindError, KindOf('-'))
	assert.Equal(t, KindUnknown, KindOf('s'))
	assert.Equal(t, "bulk_string", KindBulkString.String())
}

func TestEncode(t *testing.T) {
	tests := []struct {
		reply Reply
		want  string
	}{
		{OK(), "+OK\r\n"},
		{Status("PONG"), "+PONG\r\n"},
		{Status(""), "+\r\n"},
		{Integer(0), ":0\r\n"},
		{Integer(-42), ":-42\r\n"},
		{Error("unknown key 'k'"), "-ERR unknown key 'k'\r\n"},
		{Error("unknown key 'x\r\n+OK'"), "-ERR unknown key 'x  +OK'\r\n"},
		{Error("a\nb\rc"), "-ERR a b c\r\n"},
		{Status("two\r\nlines"), "+two  lines\r\n"},
	}
	for _, tt := range tests {
		got := string(Encode(tt.reply))
		assert.Equal(t, tt.want, got)
		// ровно один терминатор, в самом конце
		assert.Equal(t, len(got)-2, strings.Index(got, "\r\n"), "reply=%q", got)
		assert.Equal(t, 1, strings.Count(got, "\n"), "reply=%q", got)
	}
}

func TestConvert(t *testing.T) {
	arr := Convert("hello", KindArray)
	assert.Equal(t, []string{"hello"}, arr.Items)
	assert.Equal(t, "hello", arr.String())

	multi := Convert("a\r\nb", KindArray)
	assert.Equal(t, []string{"a", "b"}, multi.Items)
	assert.Equal(t, "a,b", multi.String())

	assert.Equal(t, "hi", Convert("hi\r\nrest", KindBulkString).String())
	assert.Equal(t, "hi", Convert("hi", KindSimpleString).String())
	assert.Equal(t, "oops", Convert("oops", KindError).String())
	assert.Equal(t, "inline", Convert("inline", KindUnknown).String())

	n := Convert("42", KindInteger)
	assert.Equal(t, 42.0, n.Num)
	assert.Equal(t, "42", n.String())
	assert.Equal(t, "2.5", Convert("2.5", KindInteger).String())

	nan := Convert("abc", KindInteger)
	assert.True(t, math.IsNaN(nan.Num))
	assert.Equal(t, "NaN", nan.String())
}
