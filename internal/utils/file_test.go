package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cv.txt")
	if err := os.WriteFile(file, []byte("John Doe"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"regular file", file, false},
		{"empty name", "", true},
		{"missing", filepath.Join(dir, "missing.txt"), true},
		{"directory", dir, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ValidateInputFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInputFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && info.Size() != 8 {
				t.Errorf("size = %d, want 8", info.Size())
			}
		})
	}
}

func TestIsTextFile(t *testing.T) {
	tests := map[string]bool{
		"cv.txt":      true,
		"CV.MD":       true,
		"notes.text":  true,
		"cv.docx":     false,
		"cv.pdf":      false,
		"no-ext-file": false,
	}
	for name, want := range tests {
		if got := IsTextFile(name); got != want {
			t.Errorf("IsTextFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "2026", "cv.json")
	if err := ValidateOutputFile(target); err != nil {
		t.Fatalf("ValidateOutputFile() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}
