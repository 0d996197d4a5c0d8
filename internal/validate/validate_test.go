package validate_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"warungjp/internal/validate"
)

func TestQTruncatesOnRuneBoundary(t *testing.T) {
	// 60 kanji, 3 bytes each; a byte-wise cut at 50 would split one.
	long := strings.Repeat("東", 60)

	got := validate.Q(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated query is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 50 {
		t.Fatalf("rune count = %d, want 50", utf8.RuneCountInString(got))
	}
}

func TestQTrimsAndKeepsShortInput(t *testing.T) {
	if got := validate.Q("  Tokyo (東京都)  "); got != "Tokyo (東京都)" {
		t.Fatalf("Q = %q", got)
	}
}
