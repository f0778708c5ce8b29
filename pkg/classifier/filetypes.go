package classifier

// DefaultCategories 默认分类表
func DefaultCategories() []Category {
	return []Category{
		{Name: "Audio", Extensions: []string{
			".mp3", ".wav", ".aac", ".flac", ".m4a", ".ogg", ".wma", ".aiff", ".alac", ".opus",
		}},
		{Name: "Video", Extensions: []string{
			".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".3gp", ".mpeg", ".mpg",
		}},
		{Name: "Images", Extensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff", ".svg", ".ico", ".heic", ".raw", ".cr2", ".nef",
		}},
		{Name: "Documents", Extensions: []string{
			".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".md", ".epub",
		}},
		{Name: "Spreadsheets", Extensions: []string{
			".xls", ".xlsx", ".csv", ".ods", ".tsv",
		}},
		{Name: "Presentations", Extensions: []string{
			".ppt", ".pptx", ".odp", ".key",
		}},
		{Name: "Code", Extensions: []string{
			".py", ".java", ".c", ".cpp", ".js", ".ts", ".html", ".css", ".json", ".xml",
			".sh", ".php", ".go", ".rs", ".kt", ".swift", ".rb", ".sql", ".yaml", ".yml",
		}},
		{Name: "Archives", Extensions: []string{
			".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".iso",
		}},
		{Name: "Executables", Extensions: []string{
			".exe", ".msi", ".deb", ".rpm", ".appimage", ".dmg", ".pkg", ".bin", ".run",
		}},
		{Name: "Fonts", Extensions: []string{
			".ttf", ".otf", ".woff", ".woff2", ".eot",
		}},
	}
}
