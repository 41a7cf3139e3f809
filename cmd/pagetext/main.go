// pagetext is a command-line tool for inspecting and converting page text bbox streams.
//
// It loads the text of one page, either from a bbox file or from a document's resource
// directory, and answers queries against its indexes. It also converts hOCR files into
// bbox files and renders a page back to hOCR.
//
// Usage:
//
//	pagetext -bboxes 3.bboxes [query]
//	pagetext -root document/bboxes -page 2 [query]
//	pagetext -from-hocr scan.hocr -root document/bboxes
//
// Input flags:
//
//	-config string  Optional YAML file with log_level and log_format
//	-bboxes string  Path to a bbox file
//	-root string    Directory holding "<N>.bboxes" files
//	-page int       Zero-based page number (default 0)
//
// Queries (without one a summary is printed):
//
//	-at int          Word at a byte position of the page text
//	-point x,y       Word containing a page position
//	-nearest x,y     Word closest to a page position
//	-between x1,y1,x2,y2  Words selected by dragging between two positions
//	-rect x,y,w,h    Words overlapping a rectangle
//	-range p1,p2     Words covering a byte span of the page text
//	-search string   Occurrences of a string, see -mode
//	-mode string     exact, nocase or word (default exact)
//	-prefix string   Words starting with a prefix, ignoring case
//	-text            Print the page text
//
// Conversion:
//
//	-from-hocr string  Convert an hOCR file into bbox files under -root
//	-to-hocr string    Render the loaded page as hOCR to a file
//
// Example:
//
//	pagetext -root document/bboxes -page 0 -search "page text" -mode nocase
//	pagetext -bboxes 1.bboxes -point 120,340
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/pagetext/internal/cliconfig"
	"github.com/gardar/pagetext/pkg/hocr"
	"github.com/gardar/pagetext/pkg/pagetext"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// options are the parsed command-line flags
type options struct {
	configPath string
	bboxesPath string
	root       string
	page       int

	at      int
	point   string
	nearest string
	between string
	rect    string
	span    string
	search  string
	mode    string
	prefix  string
	text    bool

	fromHOCR string
	toHOCR   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pagetext", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to an optional config YAML file")
	fs.StringVar(&opts.bboxesPath, "bboxes", "", "Path to a bbox file")
	fs.StringVar(&opts.root, "root", "", "Directory holding <N>.bboxes files")
	fs.IntVar(&opts.page, "page", 0, "Zero-based page number")

	fs.IntVar(&opts.at, "at", -1, "Print the word at a byte position")
	fs.StringVar(&opts.point, "point", "", "Print the word containing x,y")
	fs.StringVar(&opts.nearest, "nearest", "", "Print the word closest to x,y")
	fs.StringVar(&opts.between, "between", "", "Print the words selected from x1,y1 to x2,y2")
	fs.StringVar(&opts.rect, "rect", "", "Print the words overlapping x,y,w,h")
	fs.StringVar(&opts.span, "range", "", "Print the words covering byte span p1,p2")
	fs.StringVar(&opts.search, "search", "", "Search the page text")
	fs.StringVar(&opts.mode, "mode", "exact", "Search mode: exact, nocase or word")
	fs.StringVar(&opts.prefix, "prefix", "", "Print the words starting with a prefix")
	fs.BoolVar(&opts.text, "text", false, "Print the page text")

	fs.StringVar(&opts.fromHOCR, "from-hocr", "", "Convert an hOCR file into bbox files under -root")
	fs.StringVar(&opts.toHOCR, "to-hocr", "", "Render the loaded page as hOCR to a file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case opts.fromHOCR != "" && opts.root == "":
		return nil, errors.New("-from-hocr requires -root")
	case opts.fromHOCR == "" && (opts.bboxesPath == "") == (opts.root == ""):
		return nil, errors.New("either -bboxes or -root must be provided (but not both)")
	case opts.page < 0:
		return nil, errors.New("-page must not be negative")
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	yc, err := cliconfig.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger, err := yc.Logger()
	if err != nil {
		return err
	}

	if opts.fromHOCR != "" {
		return convertHOCR(opts.fromHOCR, opts.root, logger, stdout)
	}

	pt, err := loadPage(opts, logger)
	if err != nil {
		return err
	}
	return query(pt, opts, stdout)
}

// loadPage reads the requested page; a damaged page loads as an empty one
func loadPage(opts *options, logger logrus.FieldLogger) (*pagetext.PageText, error) {
	rd := pagetext.NewReader(pagetext.Config{Logger: logger})
	if opts.root != "" {
		return rd.ReadFile(opts.root, opts.page), nil
	}
	f, err := os.Open(opts.bboxesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbox file: %w", err)
	}
	defer f.Close()
	return rd.Read(opts.page, bufio.NewReader(f)), nil
}

// convertHOCR writes one bbox file per hOCR page
func convertHOCR(path, root string, logger logrus.FieldLogger, stdout io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read hOCR file: %w", err)
	}
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return err
	}
	for i, src := range hocr.Sources(&doc) {
		if err := pagetext.WriteFile(root, i, src); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"page": i, "words": len(src.Boxes)}).Debug("page converted")
		fmt.Fprintf(stdout, "%s\t%d words\n", pagetext.PagePath(root, i), len(src.Boxes))
	}
	return nil
}

// query answers every query given on the command line
func query(pt *pagetext.PageText, opts *options, w io.Writer) error {
	asked := false

	if opts.at >= 0 {
		asked = true
		printBoxes(w, pt.WordBoxAt(opts.at))
	}
	if opts.point != "" {
		asked = true
		v, err := parseInts(opts.point, 2)
		if err != nil {
			return fmt.Errorf("-point: %w", err)
		}
		printBoxes(w, pt.WordBoxAtPoint(pagetext.Point{X: v[0], Y: v[1]}))
	}
	if opts.nearest != "" {
		asked = true
		v, err := parseInts(opts.nearest, 2)
		if err != nil {
			return fmt.Errorf("-nearest: %w", err)
		}
		printBoxes(w, pt.NearestWordBox(pagetext.Point{X: v[0], Y: v[1]}))
	}
	if opts.between != "" {
		asked = true
		v, err := parseInts(opts.between, 4)
		if err != nil {
			return fmt.Errorf("-between: %w", err)
		}
		printBoxes(w, pt.WordBoxesBetween(pagetext.Point{X: v[0], Y: v[1]}, pagetext.Point{X: v[2], Y: v[3]})...)
	}
	if opts.rect != "" {
		asked = true
		v, err := parseInts(opts.rect, 4)
		if err != nil {
			return fmt.Errorf("-rect: %w", err)
		}
		printBoxes(w, pt.WordBoxesInRect(pagetext.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]})...)
	}
	if opts.span != "" {
		asked = true
		v, err := parseInts(opts.span, 2)
		if err != nil {
			return fmt.Errorf("-range: %w", err)
		}
		printBoxes(w, pt.WordBoxesInRange(v[0], v[1])...)
	}
	if opts.search != "" {
		asked = true
		mode, err := pagetext.ParseSearchMode(opts.mode)
		if err != nil {
			return err
		}
		for _, m := range pt.Search(opts.search, mode) {
			fmt.Fprintf(w, "match %d-%d\n", m.Start, m.End)
			printBoxes(w, m.Boxes...)
		}
	}
	if opts.prefix != "" {
		asked = true
		printBoxes(w, pt.PrefixMatches(opts.prefix)...)
	}
	if opts.text {
		asked = true
		fmt.Fprint(w, pt.Text())
	}
	if opts.toHOCR != "" {
		asked = true
		html, err := hocr.GenerateHOCRDocument(fmt.Sprintf("Page %d", pt.PageIndex()+1), pt)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.toHOCR, []byte(html), 0644); err != nil {
			return fmt.Errorf("failed to write hOCR: %w", err)
		}
	}

	if !asked {
		printSummary(w, pt)
	}
	return nil
}

// printBoxes writes one tab-separated line per box; nil boxes are skipped
func printBoxes(w io.Writer, boxes ...*pagetext.WordBox) {
	for _, b := range boxes {
		if b == nil {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%d+%d\t%q\t%s\n",
			b.Index(), b.Bounds, b.ContentPosition, b.ContentLength, b.Text(), b.Attrs)
	}
}

func printSummary(w io.Writer, pt *pagetext.PageText) {
	fmt.Fprintf(w, "page:        %d\n", pt.PageIndex())
	fmt.Fprintf(w, "page start:  %d\n", pt.PageStart())
	fmt.Fprintf(w, "words:       %d\n", pt.NumWordBoxes())
	fmt.Fprintf(w, "text bytes:  %d\n", pt.Len())
	fmt.Fprintf(w, "diagnostics: %d\n", len(pt.Diagnostics()))
	for _, d := range pt.Diagnostics() {
		fmt.Fprintf(w, "  %v\n", d)
	}
}

// parseInts splits a comma-separated list of exactly n integers
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated integers, got %q", n, s)
	}
	result := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", p, err)
		}
		result[i] = v
	}
	return result, nil
}
