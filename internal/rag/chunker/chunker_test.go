package chunker

import (
	"strings"
	"testing"
)

func TestSimpleChunk_PacksParagraphs(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."

	//budget big enough for everything -> one chunk
	pieces := SimpleChunk(text, 512)
	if len(pieces) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(pieces))
	}
	if !strings.Contains(pieces[0].Text, "Second paragraph") {
		t.Errorf("chunk lost a paragraph: %q", pieces[0].Text)
	}
}

func TestSimpleChunk_FlushesOnBudget(t *testing.T) {
	//maxTokens 1 -> 4 chars, so every paragraph overflows the buffer
	pieces := SimpleChunk("Alpha.\n\nBeta.\n\nGamma.", 1)

	if len(pieces) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(pieces))
	}
	want := []string{"Alpha.", "Beta.", "Gamma."}
	for i, w := range want {
		if pieces[i].Text != w {
			t.Errorf("chunk %d got %q, want %q", i, pieces[i].Text, w)
		}
	}
}

func TestSimpleChunk_NeverSplitsAParagraph(t *testing.T) {
	long := strings.Repeat("word ", 100)
	pieces := SimpleChunk(long, 10) //40 chars, paragraph is ~500

	if len(pieces) != 1 {
		t.Fatalf("oversized paragraph must stay whole, got %d pieces", len(pieces))
	}
	if pieces[0].Text != strings.TrimSpace(long) {
		t.Error("paragraph content changed")
	}
}

func TestSimpleChunk_EmptyText(t *testing.T) {
	if pieces := SimpleChunk("", 512); len(pieces) != 0 {
		t.Errorf("empty text should yield 0 chunks, got %d", len(pieces))
	}
	if pieces := SimpleChunk("\n\n  \n\n", 512); len(pieces) != 0 {
		t.Errorf("whitespace-only text should yield 0 chunks, got %d", len(pieces))
	}
}

func TestSplitParagraphs(t *testing.T) {
	paras := splitParagraphs("a\r\n\r\nb\n\n\n\nc")
	if len(paras) != 3 {
		t.Fatalf("got %d paragraphs: %v", len(paras), paras)
	}
}
