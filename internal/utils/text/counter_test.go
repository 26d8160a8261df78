package text_test

import (
	"strings"
	"testing"

	"url-summarizer/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "Japanese hiragana", input: "こんにちは", expected: 5},
		{name: "mixed", input: "hello世界", expected: 7},
		{name: "emoji", input: "Hello👋", expected: 6},
		{name: "empty", input: "", expected: 0},
		{name: "Typical Japanese sentence", input: "AIの発展により、新しい可能性が広がっています。", expected: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		n         int
		want      string
		truncated bool
	}{
		{name: "shorter than limit", input: "abc", n: 5, want: "abc"},
		{name: "exactly at limit", input: "abcde", n: 5, want: "abcde"},
		{name: "over limit ascii", input: "abcdef", n: 5, want: "abcde", truncated: true},
		{name: "over limit japanese", input: "あいうえおか", n: 3, want: "あいう", truncated: true},
		{name: "zero limit", input: "abc", n: 0, want: "", truncated: true},
		{name: "zero limit empty", input: "", n: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := text.TruncateRunes(tt.input, tt.n)
			if got != tt.want || truncated != tt.truncated {
				t.Errorf("TruncateRunes(%q, %d) = (%q, %v), want (%q, %v)",
					tt.input, tt.n, got, truncated, tt.want, tt.truncated)
			}
		})
	}
}

func TestClip(t *testing.T) {
	if got := text.Clip("short", 10); got != "short" {
		t.Errorf("Clip short = %q", got)
	}
	long := strings.Repeat("あ", 10) // 30 bytes
	got := text.Clip(long, 7)
	if got != "ああ…" {
		t.Errorf("Clip multibyte = %q, want %q", got, "ああ…")
	}
}
