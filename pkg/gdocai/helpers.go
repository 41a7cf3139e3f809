package gdocai

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON renders a Document AI message, or any other value, as indented JSON
func ToJSON(data interface{}) (string, error) {
	var out []byte
	var err error
	if msg, ok := data.(proto.Message); ok {
		out, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal %T: %w", data, err)
	}
	return string(out), nil
}

// ExtractImageFromPage returns the page image Document AI sent back
func ExtractImageFromPage(page *Page) ([]byte, error) {
	if page == nil || page.DocumentaiObject == nil {
		return nil, fmt.Errorf("no documentai page provided")
	}
	if content := page.DocumentaiObject.GetImage().GetContent(); len(content) > 0 {
		return content, nil
	}
	return nil, fmt.Errorf("no image found in documentai page %d", page.PageNumber)
}

// ImageExtension is the file extension for the page image's MIME type,
// ".png" when the type is missing or unknown
func ImageExtension(page *Page) string {
	mime := strings.ToLower(page.DocumentaiObject.GetImage().GetMimeType())
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/tiff":
		return ".tiff"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".png"
}
