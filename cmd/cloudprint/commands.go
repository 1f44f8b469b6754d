package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/enthus-golang/cloudprint"
)

func (a *app) token(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: token takes no arguments", errUsage)
	}

	token, err := a.exchange(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, token)
	return nil
}

func (a *app) printers(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: printers takes at most one query", errUsage)
	}

	var (
		printers []cloudprint.Printer
		err      error
	)
	if len(args) == 1 {
		printers, err = a.client.SearchPrinters(ctx, args[0])
	} else {
		printers, err = a.client.ListPrinters(ctx)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("listed printers", zap.Int("count", len(printers)))
	renderPrinters(a.stdout, printers)
	return nil
}

func (a *app) printer(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: printer needs a printer ID", errUsage)
	}

	printer, err := a.client.GetPrinter(ctx, args[0])
	if err != nil {
		return err
	}

	renderPrinters(a.stdout, []cloudprint.Printer{*printer})
	return nil
}

func (a *app) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	printerID := fs.String("printer", "", "printer ID")
	printerName := fs.String("printer-name", "", "printer name, looked up when -printer is not given")
	title := fs.String("title", "", "job title (default: file name or URL)")
	contentType := fs.String("type", "", "content type (default: guessed from the file extension)")
	ticketPath := fs.String("ticket", "", "print ticket file, YAML or JSON")
	copies := fs.Int("copies", 0, "number of copies")
	color := fs.Bool("color", false, "print in colour")
	duplex := fs.String("duplex", "", "none, long-edge or short-edge")
	orientation := fs.String("orientation", "", "portrait, landscape or auto")
	pages := fs.String("pages", "", `page ranges, e.g. "1-3,5"`)
	media := fs.String("media", "", "a4 or letter")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: submit needs exactly one file or URL", errUsage)
	}

	if *printerID == "" && *printerName != "" {
		printer, err := a.client.FindPrinterByName(ctx, *printerName)
		if err != nil {
			return err
		}
		*printerID = printer.ID
	}
	if *printerID == "" {
		return fmt.Errorf("%w: -printer or -printer-name is required", errUsage)
	}

	source := fs.Arg(0)
	job := &cloudprint.PrintJob{PrinterID: *printerID, Title: *title}
	if isURL(source) {
		job.Content = []byte(source)
		job.ContentType = cloudprint.ContentTypeURL
		if job.Title == "" {
			job.Title = source
		}
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}
		job.Content = data
		job.ContentType = *contentType
		if job.ContentType == "" {
			job.ContentType = cloudprint.ContentTypeForFile(source)
		}
		if job.Title == "" {
			job.Title = filepath.Base(source)
		}
	}

	optionSet := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "copies", "color", "duplex", "orientation", "pages", "media":
			optionSet = true
		}
	})

	switch {
	case *ticketPath != "" && optionSet:
		return fmt.Errorf("%w: -ticket cannot be combined with print option flags", errUsage)
	case *ticketPath != "":
		ticket, err := loadTicket(*ticketPath)
		if err != nil {
			return err
		}
		job.Ticket = ticket
	case optionSet:
		opts := &cloudprint.PrintOptions{
			Copies:      *copies,
			Color:       *color,
			Duplex:      *duplex,
			Orientation: *orientation,
			PageRange:   *pages,
		}
		size, err := mediaSize(*media)
		if err != nil {
			return err
		}
		opts.MediaSize = size
		ticket, err := opts.Ticket()
		if err != nil {
			return err
		}
		job.Ticket = ticket
	}

	jobID, err := a.client.Submit(ctx, job)
	if err != nil {
		var apiErr *cloudprint.APIError
		if errors.As(err, &apiErr) {
			a.logger.Warn("print job rejected",
				zap.String("printer_id", job.PrinterID),
				zap.String("error_code", apiErr.Code),
				zap.String("message", apiErr.Message))
		}
		return err
	}

	a.logger.Info("print job submitted",
		zap.String("job_id", jobID),
		zap.String("printer_id", job.PrinterID),
		zap.String("content_type", job.ContentType))
	fmt.Fprintln(a.stdout, jobID)
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: status needs a job ID", errUsage)
	}

	status, err := a.client.GetJobStatus(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, statusStyle(string(status)).Render(string(status)))
	return nil
}

func (a *app) jobs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	printerID := fs.String("printer", "", "only jobs of this printer")
	status := fs.String("status", "", "only jobs in this state, e.g. QUEUED")
	limit := fs.Int("limit", 0, "maximum number of jobs")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	jobs, err := a.client.ListJobs(ctx, &cloudprint.ListJobsOptions{
		PrinterID: *printerID,
		Status:    cloudprint.JobStatus(strings.ToUpper(*status)),
		Limit:     *limit,
	})
	if err != nil {
		return err
	}

	renderJobs(a.stdout, jobs)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete needs a job ID", errUsage)
	}

	if err := a.client.DeleteJob(ctx, args[0]); err != nil {
		return err
	}

	a.logger.Info("print job deleted", zap.String("job_id", args[0]))
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func mediaSize(name string) (*cloudprint.MediaSize, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "a4":
		return cloudprint.MediaA4, nil
	case "letter":
		return cloudprint.MediaLetter, nil
	}
	return nil, fmt.Errorf("%w: unknown media size %q", errUsage, name)
}

// loadTicket reads a print ticket document. YAML is a superset of JSON, so
// both formats are accepted.
func loadTicket(path string) (cloudprint.Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ticket: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing ticket: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("ticket %s is empty", path)
	}

	return cloudprint.Ticket(doc), nil
}
