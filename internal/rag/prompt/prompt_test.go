package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
)

func TestFormatContextDedupes(t *testing.T) {
	chunks := []ragModel.RetrievedChunk{
		{ChunkId: "d_0", DocumentFilename: "a.pdf", Text: "Alpha facts.", Similarity: 0.9},
		{ChunkId: "d_1", DocumentFilename: "a.pdf", Text: "Beta facts.", Similarity: 0.8},
		{ChunkId: "e_0", DocumentFilename: "b.pdf", Text: "Alpha facts.", Similarity: 0.7},
	}

	got := FormatContext(chunks)

	if strings.Count(got, "Alpha facts.") != 1 {
		t.Errorf("duplicate text should appear once:\n%s", got)
	}
	if !strings.Contains(got, "### Chunk 1 from a.pdf (Relevance: 0.90)") {
		t.Errorf("missing first header:\n%s", got)
	}
	if !strings.Contains(got, "### Chunk 2 from a.pdf (Relevance: 0.80)") {
		t.Errorf("numbering should be contiguous over survivors:\n%s", got)
	}
	if strings.Contains(got, "Chunk 3") {
		t.Errorf("dropped duplicate should not be numbered:\n%s", got)
	}
}

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(nil); got != "No relevant context found." {
		t.Errorf("got %q", got)
	}
	// whitespace-only chunks count as empty too
	blank := []ragModel.RetrievedChunk{{ChunkId: "x", Text: "   "}}
	if got := FormatContext(blank); got != "No relevant context found." {
		t.Errorf("got %q", got)
	}
}

func TestBuildSectionOrder(t *testing.T) {
	history := []ragModel.ConversationTurn{
		{Role: ragModel.RoleUser, Content: "earlier question"},
		{Role: ragModel.RoleAssistant, Content: "earlier answer"},
	}

	got := Build(StyleDefault, "some context", history, "what now?")

	markers := []string{
		"## Context Documents:",
		"## Previous Conversation:",
		"## User Question:",
		"## Your Response:",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(got, marker)
		if idx == -1 {
			t.Fatalf("missing section %q:\n%s", marker, got)
		}
		if idx < last {
			t.Errorf("section %q out of order:\n%s", marker, got)
		}
		last = idx
	}
	if !strings.Contains(got, "User: earlier question") {
		t.Errorf("history turn missing:\n%s", got)
	}
}

func TestBuildSkipsEmptyHistory(t *testing.T) {
	got := Build(StyleDefault, "ctx", nil, "q")
	if strings.Contains(got, "## Previous Conversation:") {
		t.Errorf("empty history should drop its section:\n%s", got)
	}
}

func TestBuildMessagesShape(t *testing.T) {
	history := make([]ragModel.ConversationTurn, 0, 8)
	for i := 0; i < 8; i++ {
		history = append(history, ragModel.ConversationTurn{Role: ragModel.RoleUser, Content: strings.Repeat("x", i+1)})
	}

	messages := BuildMessages(StyleConcise, "the context", history, "final question")

	// system + 5 most recent turns + question
	if len(messages) != 7 {
		t.Fatalf("expected 7 messages, got %d", len(messages))
	}
	if messages[0].Role != ragModel.RoleSystem {
		t.Errorf("first message should be system, got %s", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "## Context Documents:\nthe context") {
		t.Errorf("system message should carry the context:\n%s", messages[0].Content)
	}
	if messages[1].Content != "xxxx" {
		t.Errorf("history should keep the most recent turns, got %q first", messages[1].Content)
	}
	final := messages[len(messages)-1]
	if final.Role != ragModel.RoleUser || final.Content != "final question" {
		t.Errorf("last message should be the question, got %+v", final)
	}
}

func TestSystemPromptStyles(t *testing.T) {
	if SystemPrompt(StyleConcise) == SystemPrompt(StyleDetailed) {
		t.Error("styles should differ")
	}
	if SystemPrompt("unknown") != SystemPrompt(StyleDefault) {
		t.Error("unknown style should fall back to default")
	}
}

func TestSummarizePreviews(t *testing.T) {
	long := strings.Repeat("a", 300)
	refs := Summarize([]ragModel.RetrievedChunk{
		{ChunkId: "d_0", DocumentId: "d", DocumentFilename: "f.txt", Text: long, Similarity: 0.42},
	}, 200)

	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if len(refs[0].Preview) != 200 {
		t.Errorf("preview should truncate to 200 chars, got %d", len(refs[0].Preview))
	}
	if refs[0].Similarity != 0.42 {
		t.Errorf("similarity should carry over, got %v", refs[0].Similarity)
	}
}

func TestTruncationKeepsRuneBoundaries(t *testing.T) {
	// 3-byte runes, sized so the byte limit lands mid-rune.
	long := strings.Repeat("あ", 667)
	out := FormatContext([]ragModel.RetrievedChunk{
		{ChunkId: "d_0", DocumentFilename: "notes.txt", Text: long, Similarity: 0.5},
	})
	if !utf8.ValidString(out) {
		t.Error("clipped context should remain valid UTF-8")
	}
	if !strings.HasSuffix(out, "...") {
		t.Error("oversized chunk should be clipped with an ellipsis")
	}

	refs := Summarize([]ragModel.RetrievedChunk{{Text: strings.Repeat("あ", 67)}}, 200)
	if !utf8.ValidString(refs[0].Preview) {
		t.Error("preview should remain valid UTF-8")
	}
	if len(refs[0].Preview) != 198 {
		t.Errorf("preview should back up to the rune boundary, got %d bytes", len(refs[0].Preview))
	}
}

func TestStats(t *testing.T) {
	stats := Stats([]ragModel.RetrievedChunk{
		{DocumentId: "doc-b", Text: "1234", Similarity: 0.6},
		{DocumentId: "doc-a", Text: "123456", Similarity: 0.8},
		{DocumentId: "doc-b", Text: "12", Similarity: 1.0},
	})

	if stats.TotalChunks != 3 {
		t.Errorf("expected 3 chunks, got %d", stats.TotalChunks)
	}
	if len(stats.Documents) != 2 || stats.Documents[0] != "doc-a" {
		t.Errorf("expected sorted unique documents, got %v", stats.Documents)
	}
	if stats.TotalTextLength != 12 {
		t.Errorf("expected text length 12, got %d", stats.TotalTextLength)
	}
	if stats.AverageSimilarity != 0.8 {
		t.Errorf("expected average 0.8, got %v", stats.AverageSimilarity)
	}

	empty := Stats(nil)
	if empty.TotalChunks != 0 || empty.AverageSimilarity != 0 {
		t.Errorf("empty input should yield zero stats, got %+v", empty)
	}
}
