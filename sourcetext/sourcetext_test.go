package sourcetext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ASCIIOffsetsCoincide(t *testing.T) {
	sc := New("a.go", []byte("package main\n\nfunc main() {}\n"))
	for i := 0; i <= sc.ByteLength(); i++ {
		assert.Equal(t, i, sc.ByteOffsetToCharPosition(i), "ASCII byte and char offsets must coincide at %d", i)
	}
}

func TestNew_StripsLeadingBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("package main\n")...)
	sc := New("a.go", raw)

	assert.NotEqual(t, byte(0xEF), sc.Text()[0])
	assert.Equal(t, len([]byte("package main\n")), sc.ByteLength())
}

func TestSubstringFromBytes_NonASCII(t *testing.T) {
	src := "/* ═════ Helpers ═════ */\npublic class Foo {}\n"
	sc := New("Foo.java", []byte(src))

	declStart := len("/* ═════ Helpers ═════ */\n")
	declEnd := len(src) - 1 // exclude trailing newline

	got := sc.SubstringFromBytes(declStart, declEnd)
	require.Equal(t, "public class Foo {}", got)
}

func TestSubstringFromBytes_InvertedOrOutOfRange(t *testing.T) {
	sc := New("a.go", []byte("abc"))

	assert.Equal(t, "", sc.SubstringFromBytes(5, 1))
	assert.Equal(t, "", sc.SubstringFromBytes(-10, -5))
	assert.Equal(t, "", sc.SubstringFromBytes(100, 200))
	assert.Equal(t, "abc", sc.SubstringFromBytes(-1, 100))
}

func TestByteCharRoundTrip_Monotone(t *testing.T) {
	sc := New("a.go", []byte("héllo wörld"))

	prevByte, prevChar := -1, -1
	for charPos := 0; charPos <= len([]rune(sc.Text())); charPos++ {
		b := sc.CharPositionToByteOffset(charPos)
		assert.GreaterOrEqual(t, b, prevByte)
		c := sc.ByteOffsetToCharPosition(b)
		assert.GreaterOrEqual(t, c, prevChar)
		assert.Equal(t, charPos, c)
		prevByte, prevChar = b, c
	}
}

func TestHash_StableForIdenticalContent(t *testing.T) {
	a := New("a.go", []byte("same"))
	b := New("b.go", []byte("same"))
	assert.Equal(t, a.Hash(), b.Hash())
}
