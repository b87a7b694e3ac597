package constants

import "strings"

// FileTypes holds the allowed document kinds for the analysis pipeline.
var FileTypes = []string{"PDF", "SPREADSHEET"}

// AllowedExtensions holds the upload extensions the extractor understands.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"xlsx": {},
	"xls":  {},
}

// AllowedMIMETypes holds the multipart content types the upload endpoint
// accepts. Anything else is rejected before a byte hits disk.
var AllowedMIMETypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-excel":                                          {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the document kind for an extension, or "" when the
// extension is not supported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "PDF"
	case "xlsx", "xls":
		return "SPREADSHEET"
	default:
		return ""
	}
}
