package handlers

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain name", "report.pdf", "report.pdf", true},
		{"surrounding spaces", "  notes.md ", "notes.md", true},
		{"parent traversal", "../../../../etc/cron.d/evil.md", "evil.md", true},
		{"absolute path", "/etc/passwd.txt", "passwd.txt", true},
		{"windows separators", `..\..\boot.md`, "", false},
		{"empty", "", "", false},
		{"dot", ".", "", false},
		{"dot dot", "..", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := sanitizeFilename(tc.input)
			if ok != tc.ok {
				t.Fatalf("sanitizeFilename(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizedUploadPathStaysInTargetDirectory(t *testing.T) {
	targetDir := filepath.Join("/srv", "app", "temporary_data")

	safeName, ok := sanitizeFilename("../../../../etc/cron.d/evil.md")
	if !ok {
		t.Fatal("traversal name should sanitize to its base element")
	}

	joined := filepath.Join(targetDir, "1756000000-"+safeName)
	if filepath.Dir(joined) != targetDir {
		t.Errorf("upload path escaped the target directory: %s", joined)
	}
}

func TestIsAllowedFileType(t *testing.T) {
	if !isAllowedFileType("doc.PDF") {
		t.Error("extension check should be case insensitive")
	}
	if isAllowedFileType("binary.exe") {
		t.Error("unlisted extensions should be rejected")
	}
}
