package gdocai

import (
	"context"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const pdfMimeType = "application/pdf"

func (c *Config) validate() error {
	if c == nil || c.ProjectID == "" || c.Location == "" || c.ProcessorID == "" {
		return fmt.Errorf("project_id, location and processor_id are required")
	}
	return nil
}

// processorName is the resource name requests are sent to
func (c *Config) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// clientOptions point the client at the regional endpoint. Credentials come
// from GOOGLE_APPLICATION_CREDENTIALS when it is set, otherwise from the
// default credential chain.
func (c *Config) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithEndpoint(c.Location + "-documentai.googleapis.com:443")}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}

// ProcessDocument sends PDF bytes to the configured OCR processor and
// returns the Document it recognized
func ProcessDocument(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, cfg.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	name := cfg.processorName()
	cfg.logger().WithFields(logrus.Fields{"processor": name, "bytes": len(pdfBytes)}).Debug("processing document")
	resp, err := client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name:            name,
		SkipHumanReview: true,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{Content: pdfBytes, MimeType: pdfMimeType},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("processor %s: %w", name, err)
	}
	return resp.GetDocument(), nil
}
