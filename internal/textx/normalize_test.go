package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line endings", "a\r\nb\rc", "a\nb\nc"},
		{"code fence stripped", "```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"fence without language", "```\ntext\n```", "text"},
		{"leading emoji per line", "🔑 password\n📝 note", "password\nnote"},
		{"full width punctuation", "ｐａｓｓ？：１２３！", "ｐａｓｓ?:123!"},
		{"full width space", "ａ　ｂ", "ａ ｂ"},
		{"zero width removed", "a​b\uFEFFc", "abc"},
		{"blank run collapsed", "a\n\n\n\n\nb", "a\n\nb"},
		{"trimmed", "  \n hello \n\n", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"```\n🔐 Ｓｏｍｅ ｔｅｘｔ\n\n\n\nmore​\n```",
		"plain",
		"a\r\nb\n\n\n\nc",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalize_PreservesLiteralContent(t *testing.T) {
	in := "```\nSome **content**\nline2\n```"
	assert.Equal(t, "Some **content**\nline2", Normalize(in))
}
