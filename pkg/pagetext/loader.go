package pagetext

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileExt is the extension of stored bbox streams
const FileExt = ".bboxes"

// PagePath returns where the text of zero-based page lives under a
// document's resource root. Files are numbered from 1.
func PagePath(root string, page int) string {
	return filepath.Join(root, fmt.Sprintf("%d%s", page+1, FileExt))
}

// ReadFile loads a page with the default configuration. See Reader.ReadFile.
func ReadFile(root string, page int) *PageText {
	return defaultReader.ReadFile(root, page)
}

// ReadFile loads the text of a page from its file under root. A missing or
// unreadable file gives an empty page, like a corrupt one.
func (rd *Reader) ReadFile(root string, page int) *PageText {
	path := PagePath(root, page)
	f, err := os.Open(path)
	if err != nil {
		rd.cfg.Logger.WithFields(logrus.Fields{"page": page, "path": path}).WithError(err).Warn("page text unavailable")
		return rd.empty(page)
	}
	defer f.Close()
	return rd.Read(page, bufio.NewReader(f))
}

// WriteFile encodes src to the file for page under root, creating root if
// needed. No file is left behind when src cannot be encoded.
func WriteFile(root string, page int, src *Source) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", root, err)
	}
	path := PagePath(root, page)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
