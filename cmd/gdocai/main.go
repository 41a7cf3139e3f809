// gdocai is a command-line tool for OCRing documents with Google Document AI and storing the page text.
//
// The tool sends a PDF to a Document AI OCR processor and writes one "<N>.bboxes" page text
// stream per page into a document's resource directory. It can also save the plain text, an
// hOCR rendering of the stored pages, the page images and the raw API response.
//
// Configuration:
//
// The tool requires a YAML configuration file with Google Document AI settings:
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//	log_level: "info"   # optional: trace, debug, info, warn, error
//	log_format: "text"  # optional: text or json
//
// Usage:
//
//	gdocai -config config.yml -pdf input.pdf [options]
//
// Required flags:
//
//	-config string  Path to the YAML configuration file
//	-pdf string     Path to the input PDF file (required if -pdfs is not defined)
//	-pdfs string    Comma separated list of input PDF files to process as a single document (required if -pdf is not defined)
//
// Output options (at least one required):
//
//	-bboxes string  Directory to write the "<N>.bboxes" page text files to
//	-text string    Path to save OCR text output
//	-hocr string    Path to save hOCR output
//	-images string  Directory to save page images
//
// Debug options:
//
//	-debug-api string   Path to save raw API response as JSON
//
// Authentication:
//
// The tool uses the GOOGLE_APPLICATION_CREDENTIALS environment variable
// for authentication with Google Cloud.
//
// Example:
//
//	export GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//	gdocai -config config.yml -pdf document.pdf -bboxes document/bboxes -hocr document.hocr
//	gdocai -config config.yml -pdfs page1.pdf,page2.pdf,page3.pdf -bboxes combo/bboxes
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/pagetext/internal/cliconfig"
	"github.com/gardar/pagetext/pkg/gdocai"
	"github.com/gardar/pagetext/pkg/hocr"
	"github.com/gardar/pagetext/pkg/pagetext"
)

func main() {
	// Required flags.
	configPath := flag.String("config", "", "Path to the config YAML file (required)")
	pdfPath := flag.String("pdf", "", "Path to the input PDF file (required if -pdfs not specified)")
	pdfPaths := flag.String("pdfs", "", "Comma-separated list of PDF files to process as individual pages (required if -pdf not specified)")

	// Output flags
	bboxesDir := flag.String("bboxes", "", "Directory to write the page text bbox files to")
	textPath := flag.String("text", "", "Path to save OCR text output")
	hocrPath := flag.String("hocr", "", "Path to save HOCR output")
	imagesDir := flag.String("images", "", "Directory to save images returned by Document AI API for each processed page")
	debugAPIPath := flag.String("debug-api", "", "Path to save API response as JSON for debugging purposes")

	flag.Parse()

	usageError := func(msg string) {
		fmt.Fprintln(os.Stderr, "Error:", msg)
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *configPath == "" {
		usageError("-config flag is required")
	}
	if (*pdfPath == "") == (*pdfPaths == "") {
		usageError("Either -pdf or -pdfs flag must be provided (but not both)")
	}
	if *bboxesDir == "" && *textPath == "" && *hocrPath == "" && *imagesDir == "" && *debugAPIPath == "" {
		usageError("At least one output flag must be provided (-bboxes, -text, -hocr, -images or -debug-api)")
	}

	// Load config from file.
	yc, err := cliconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger, err := yc.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	cfg := &gdocai.Config{
		ProjectID:   yc.ProjectID,
		Location:    yc.Location,
		ProcessorID: yc.ProcessorID,
		Logger:      logger,
	}

	ctx := context.Background()
	var doc *gdocai.Document
	if *pdfPath != "" {
		logger.WithField("pdf", *pdfPath).Info("processing single PDF file")
		pdfBytes, err := os.ReadFile(*pdfPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to read PDF file")
		}
		doc, err = gdocai.DocumentOCR(ctx, pdfBytes, cfg)
		if err != nil {
			logger.WithError(err).Fatal("error processing document")
		}
	} else {
		var pages [][]byte
		for _, path := range strings.Split(*pdfPaths, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			logger.WithFields(logrus.Fields{"page": len(pages) + 1, "pdf": path}).Info("reading page")
			pageBytes, err := os.ReadFile(path)
			if err != nil {
				logger.WithError(err).WithField("pdf", path).Fatal("failed to read PDF file")
			}
			pages = append(pages, pageBytes)
		}
		if len(pages) == 0 {
			logger.Fatal("no valid PDF files found in the provided list")
		}
		doc, err = gdocai.DocumentOCRFromPages(ctx, pages, cfg)
		if err != nil {
			logger.WithError(err).Fatal("error processing documents")
		}
	}

	if err := writeOutputs(doc, outputs{
		bboxesDir:    *bboxesDir,
		textPath:     *textPath,
		hocrPath:     *hocrPath,
		imagesDir:    *imagesDir,
		debugAPIPath: *debugAPIPath,
	}, logger); err != nil {
		logger.WithError(err).Fatal("failed to write output")
	}
}

// outputs are the requested output locations; empty ones are skipped
type outputs struct {
	bboxesDir    string
	textPath     string
	hocrPath     string
	imagesDir    string
	debugAPIPath string
}

func writeOutputs(doc *gdocai.Document, out outputs, logger logrus.FieldLogger) error {
	if out.bboxesDir != "" {
		if err := doc.WriteBBoxes(out.bboxesDir); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"dir": out.bboxesDir, "pages": len(doc.Pages)}).Info("page text saved")
	}

	if out.textPath != "" {
		if err := os.WriteFile(out.textPath, []byte(doc.Text), 0644); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
		logger.WithField("path", out.textPath).Info("document text saved")
	}

	if out.hocrPath != "" {
		pages, err := doc.PageTexts(pagetext.Config{Logger: logger})
		if err != nil {
			return err
		}
		html, err := hocr.GenerateHOCRDocument("Document OCR", pages...)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out.hocrPath, []byte(html), 0644); err != nil {
			return fmt.Errorf("failed to write HOCR output: %w", err)
		}
		logger.WithField("path", out.hocrPath).Info("rendered HOCR output saved")
	}

	if out.debugAPIPath != "" {
		// Not available when the pages were processed separately
		if doc.Raw == nil {
			logger.Warn("raw API response not available when processing multiple PDF files")
		} else {
			apiJSON, err := gdocai.ToJSON(doc.Raw)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out.debugAPIPath, []byte(apiJSON), 0644); err != nil {
				return fmt.Errorf("failed to write API response JSON: %w", err)
			}
			logger.WithField("path", out.debugAPIPath).Info("API response JSON saved")
		}
	}

	if out.imagesDir != "" {
		if err := os.MkdirAll(out.imagesDir, 0755); err != nil {
			return fmt.Errorf("failed to create images directory: %w", err)
		}
		for _, page := range doc.Pages {
			imgBytes, err := gdocai.ExtractImageFromPage(page)
			if err != nil {
				logger.WithError(err).WithField("page", page.PageNumber).Warn("skipping page image")
				continue
			}
			imagePath := filepath.Join(out.imagesDir, fmt.Sprintf("page_%d%s", page.PageNumber, gdocai.ImageExtension(page)))
			if err := os.WriteFile(imagePath, imgBytes, 0644); err != nil {
				return fmt.Errorf("failed to write image for page %d: %w", page.PageNumber, err)
			}
			logger.WithFields(logrus.Fields{"page": page.PageNumber, "path": imagePath}).Info("page image saved")
		}
	}
	return nil
}
