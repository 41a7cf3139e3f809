package gdocai

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"

	"github.com/gardar/pagetext/pkg/pagetext"
)

// Config identifies the Document AI processor to call
type Config struct {
	ProjectID   string
	Location    string // "us" or "eu"
	ProcessorID string

	// Logger receives progress and diagnostics; nil means logrus.StandardLogger()
	Logger logrus.FieldLogger
}

func (c *Config) logger() logrus.FieldLogger {
	if c == nil || c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// Document is the result of OCR processing, one Page per processed page
type Document struct {
	Raw   *documentaipb.Document // Original Document AI response; nil when assembled from several responses
	Text  string                 // Full text as returned by Document AI
	Pages []*Page
}

// Page is one page of a processed document
type Page struct {
	DocumentaiObject *documentaipb.Document_Page // Original Document AI page
	PageNumber       int                         // Page number (1-based)
	Text             string                      // Document AI's text for this page

	// Source is the page laid out as a bbox stream
	Source *pagetext.Source
}
