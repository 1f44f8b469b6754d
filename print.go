package cloudprint

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// ContentTypeURL marks a job whose content is a document URL rather than document bytes.
const ContentTypeURL = "url"

// PrintJob represents a print job submission.
type PrintJob struct {
	PrinterID   string
	Title       string
	Content     []byte // document bytes, or the document URL when ContentType is ContentTypeURL
	ContentType string
	Ticket      Ticket // optional
}

type submitResponse struct {
	apiResponse
	Job struct {
		ID string `json:"id"`
	} `json:"job"`
}

// Submit creates a new print job and returns its ID.
//
// URL content is sent verbatim; any other content is base64 encoded with
// contentTransferEncoding=base64. A rejection by the provider is reported as
// ErrPrintSubmitFailed wrapping an *APIError.
func (c *Client) Submit(ctx context.Context, job *PrintJob) (string, error) {
	if err := c.requireAuth(); err != nil {
		return "", err
	}
	if job == nil || job.PrinterID == "" {
		return "", fmt.Errorf("%w: printer ID is required", ErrInvalidArgument)
	}

	fields := url.Values{
		"printerid":   {job.PrinterID},
		"title":       {job.Title},
		"contentType": {job.ContentType},
	}

	if job.ContentType == ContentTypeURL {
		fields.Set("content", string(job.Content))
	} else {
		fields.Set("contentTransferEncoding", "base64")
		fields.Set("content", base64.StdEncoding.EncodeToString(job.Content))
	}

	if len(job.Ticket) > 0 {
		ticket, err := json.Marshal(job.Ticket)
		if err != nil {
			return "", fmt.Errorf("%w: encoding ticket: %w", ErrInvalidArgument, err)
		}
		fields.Set("ticket", string(ticket))
	}

	resp, err := c.doRequest(ctx, http.MethodPost, submitEndpoint, fields)
	if err != nil {
		return "", fmt.Errorf("submitting job: %w", err)
	}

	var submitResp submitResponse
	if err := parseResponse(resp, &submitResp); err != nil {
		return "", fmt.Errorf("parsing submit response: %w", err)
	}

	if !submitResp.succeeded() {
		return "", fmt.Errorf("%w: %w", ErrPrintSubmitFailed, submitResp.apiError())
	}

	if submitResp.Job.ID == "" {
		return "", fmt.Errorf("%w: submit response has no job id", ErrMalformedResponse)
	}

	return submitResp.Job.ID, nil
}

// PrintData prints raw document bytes.
func (c *Client) PrintData(ctx context.Context, printerID, title string, data []byte, contentType string, options *PrintOptions) (string, error) {
	return c.submitWithOptions(ctx, &PrintJob{
		PrinterID:   printerID,
		Title:       title,
		Content:     data,
		ContentType: contentType,
	}, options)
}

// PrintURL prints the document the provider fetches from documentURL.
func (c *Client) PrintURL(ctx context.Context, printerID, title, documentURL string, options *PrintOptions) (string, error) {
	return c.submitWithOptions(ctx, &PrintJob{
		PrinterID:   printerID,
		Title:       title,
		Content:     []byte(documentURL),
		ContentType: ContentTypeURL,
	}, options)
}

func (c *Client) submitWithOptions(ctx context.Context, job *PrintJob, options *PrintOptions) (string, error) {
	if options != nil {
		ticket, err := options.Ticket()
		if err != nil {
			return "", fmt.Errorf("building ticket: %w", err)
		}
		job.Ticket = ticket
	}

	jobID, err := c.Submit(ctx, job)
	if err != nil {
		return "", fmt.Errorf("submitting print job: %w", err)
	}

	return jobID, nil
}

// ContentTypeForFile guesses the content type of a document from its file
// extension, defaulting to application/pdf.
func ContentTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zpl":
		return "application/zpl"
	case ".pcl":
		return "application/vnd.hp-PCL"
	case ".ps":
		return "application/postscript"
	case ".xps":
		return "application/vnd.ms-xpsdocument"
	case ".txt":
		return "text/plain"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}
