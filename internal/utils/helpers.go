package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GenerateFileName builds the stored name for an upload:
// "<email local part>-<unix millis><ext>". The original extension is kept so
// the extractor can dispatch on it later.
func GenerateFileName(email, originalFileName string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	local = sanitize(local)
	ext := strings.ToLower(filepath.Ext(originalFileName))
	return fmt.Sprintf("%s-%d%s", local, time.Now().UnixMilli(), ext)
}

// EnsureDir creates the uploads directory if it does not exist yet.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
