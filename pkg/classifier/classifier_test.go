package classifier

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestClassifier_Classify(t *testing.T) {
	cls := Default()

	testCases := []struct {
		ext      string
		expected string
	}{
		{".mp3", "Audio"},
		{".flac", "Audio"},
		{".mkv", "Video"},
		{".jpg", "Images"},
		{".webp", "Images"},
		{".pdf", "Documents"},
		{".md", "Documents"},
		{".csv", "Spreadsheets"},
		{".pptx", "Presentations"},
		{".go", "Code"},
		{".zip", "Archives"},
		{".appimage", "Executables"},
		{".woff2", "Fonts"},
		{".xyz123", "Others"},
		{".unknown", "Others"},
		{"", "Others"},
		{".", "Others"},
	}

	for _, tc := range testCases {
		t.Run(tc.ext, func(t *testing.T) {
			if got := cls.Classify(tc.ext); got != tc.expected {
				t.Errorf("Classify(%q) = %s, want %s", tc.ext, got, tc.expected)
			}
		})
	}
}

func TestClassifier_Classify_CaseInsensitive(t *testing.T) {
	cls := Default()

	for _, ext := range []string{".PDF", ".Pdf", ".pdf", "pdf", " .pdf "} {
		if got := cls.Classify(ext); got != "Documents" {
			t.Errorf("Classify(%q) = %s, want Documents", ext, got)
		}
	}

	if cls.Classify(".MP3") != "Audio" {
		t.Error("Expected .MP3 to be Audio")
	}
	if cls.Classify(".PNG") != "Images" {
		t.Error("Expected .PNG to be Images")
	}
}

func TestDefaultCategories_NoDuplicateExtensions(t *testing.T) {
	seen := make(map[string]string)
	for _, cat := range DefaultCategories() {
		for _, ext := range cat.Extensions {
			if owner, ok := seen[ext]; ok {
				t.Errorf("extension %s listed under %s and %s", ext, owner, cat.Name)
			}
			seen[ext] = cat.Name
		}
	}
}

func TestNew_CustomTable(t *testing.T) {
	cls, err := New([]Category{
		{Name: "Music", Extensions: []string{"MP3", ".ogg"}},
		{Name: "Books", Extensions: []string{".epub"}},
	}, "Misc")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := cls.Classify(".mp3"); got != "Music" {
		t.Errorf("Classify(.mp3) = %s, want Music", got)
	}
	if got := cls.Classify(".EPUB"); got != "Books" {
		t.Errorf("Classify(.EPUB) = %s, want Books", got)
	}
	if got := cls.Classify(".pdf"); got != "Misc" {
		t.Errorf("Classify(.pdf) = %s, want Misc", got)
	}
	if cls.Fallback() != "Misc" {
		t.Errorf("Fallback() = %s, want Misc", cls.Fallback())
	}

	names := cls.Categories()
	if len(names) != 2 || names[0] != "Music" || names[1] != "Books" {
		t.Errorf("Categories() = %v", names)
	}
}

func TestNew_InvalidTable(t *testing.T) {
	testCases := []struct {
		name       string
		categories []Category
		fallback   string
	}{
		{
			name: "duplicate extension",
			categories: []Category{
				{Name: "A", Extensions: []string{".txt"}},
				{Name: "B", Extensions: []string{".TXT"}},
			},
			fallback: "Others",
		},
		{
			name:       "duplicate category",
			categories: []Category{{Name: "A"}, {Name: "A"}},
			fallback:   "Others",
		},
		{
			name:       "empty name",
			categories: []Category{{Name: " ", Extensions: []string{".a"}}},
			fallback:   "Others",
		},
		{
			name:       "path separator in name",
			categories: []Category{{Name: "a/b", Extensions: []string{".a"}}},
			fallback:   "Others",
		},
		{
			name:       "empty extension",
			categories: []Category{{Name: "A", Extensions: []string{""}}},
			fallback:   "Others",
		},
		{
			name:     "empty fallback",
			fallback: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.categories, tc.fallback)
			if !errors.Is(err, ErrInvalidTable) {
				t.Errorf("Expected ErrInvalidTable, got %v", err)
			}
		})
	}
}

func TestClassifier_Known(t *testing.T) {
	cls := Default()
	if !cls.Known(".JPG") {
		t.Error("Expected .JPG to be known")
	}
	if cls.Known(".nope") {
		t.Error("Expected .nope to be unknown")
	}
	if cls.Known("") {
		t.Error("Expected empty extension to be unknown")
	}
}

func TestSniff(t *testing.T) {
	fs := afero.NewMemMapFs()

	testCases := []struct {
		filename    string
		content     string
		expectedExt string
	}{
		{"photo", "\xff\xd8\xff\xe0\x00\x10JFIF", ".jpg"},
		{"image.bin", "\x89PNG\r\n\x1a\n", ".png"},
		{"paper", "%PDF-1.4", ".pdf"},
		{"song", "ID3\x04\x00\x00\x00\x00\x00\x00", ".mp3"},
		{"notes", "random content", ""},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			path := "/data/" + tc.filename
			if err := afero.WriteFile(fs, path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("创建测试文件失败: %v", err)
			}

			ext, err := Sniff(fs, path)
			if err != nil {
				t.Fatalf("Sniff() error = %v", err)
			}
			if ext != tc.expectedExt {
				t.Errorf("Sniff() = %q, want %q", ext, tc.expectedExt)
			}
		})
	}
}

func TestSniff_MissingFile(t *testing.T) {
	if _, err := Sniff(afero.NewMemMapFs(), "/missing"); err == nil {
		t.Error("Expected error for missing file")
	}
}
