package cloudprint

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// JobStatus is the legacy job state reported by Cloud Print.
type JobStatus string

// Job states. JobStatusUnknown is returned by GetJobStatus when the job is not listed.
const (
	JobStatusQueued     JobStatus = "QUEUED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusDone       JobStatus = "DONE"
	JobStatusError      JobStatus = "ERROR"
	JobStatusSubmitted  JobStatus = "SUBMITTED"
	JobStatusHeld       JobStatus = "HELD"
	JobStatusAborted    JobStatus = "ABORTED"
	JobStatusUnknown    JobStatus = "UNKNOWN"
)

// Final reports whether the job will not change state anymore.
func (s JobStatus) Final() bool {
	switch s {
	case JobStatusDone, JobStatusError, JobStatusAborted:
		return true
	}
	return false
}

// Job represents a print job.
type Job struct {
	ID            string    `json:"id"`
	PrinterID     string    `json:"printerid"`
	PrinterName   string    `json:"printerName,omitempty"`
	Title         string    `json:"title"`
	ContentType   string    `json:"contentType,omitempty"`
	Status        JobStatus `json:"status"`
	OwnerID       string    `json:"ownerId,omitempty"`
	CreateTime    string    `json:"createTime,omitempty"`
	UpdateTime    string    `json:"updateTime,omitempty"`
	NumberOfPages int       `json:"numberOfPages,omitempty"`
	ErrorCode     string    `json:"errorCode,omitempty"`
	Message       string    `json:"message,omitempty"`
}

type jobsResponse struct {
	apiResponse
	Jobs []Job `json:"jobs"`
}

// ListJobsOptions represents filters for listing jobs.
type ListJobsOptions struct {
	PrinterID string
	Status    JobStatus
	Query     string
	Limit     int
}

// ListJobs retrieves print jobs. Only the first page returned by the
// provider is considered.
func (c *Client) ListJobs(ctx context.Context, opts *ListJobsOptions) ([]Job, error) {
	params := url.Values{}
	if opts != nil {
		if opts.PrinterID != "" {
			params.Set("printerid", opts.PrinterID)
		}
		if opts.Status != "" {
			params.Set("status", string(opts.Status))
		}
		if opts.Query != "" {
			params.Set("q", opts.Query)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	resp, err := c.doRequest(ctx, http.MethodGet, jobsEndpoint, params)
	if err != nil {
		return nil, fmt.Errorf("getting jobs: %w", err)
	}

	var jobsResp jobsResponse
	if err := parseResponse(resp, &jobsResp); err != nil {
		return nil, fmt.Errorf("parsing jobs response: %w", err)
	}

	if jobsResp.rejected() {
		return nil, fmt.Errorf("%w: get jobs: %w", ErrRequestRejected, jobsResp.apiError())
	}

	return jobsResp.Jobs, nil
}

// GetJobStatus returns the status of jobID, or JobStatusUnknown when the job
// is not among the listed jobs. The jobs endpoint has no per-job lookup, so
// jobs beyond the provider's first page report JobStatusUnknown.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	if err := c.requireAuth(); err != nil {
		return "", err
	}
	if jobID == "" {
		return "", fmt.Errorf("%w: job ID is required", ErrInvalidArgument)
	}

	jobs, err := c.ListJobs(ctx, nil)
	if err != nil {
		return "", err
	}

	for _, job := range jobs {
		if job.ID == jobID {
			return job.Status, nil
		}
	}

	return JobStatusUnknown, nil
}

// DeleteJob deletes a print job.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if jobID == "" {
		return fmt.Errorf("%w: job ID is required", ErrInvalidArgument)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, deleteJobEndpoint, url.Values{"jobid": {jobID}})
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}

	var deleteResp apiResponse
	if err := parseResponse(resp, &deleteResp); err != nil {
		return fmt.Errorf("parsing delete response: %w", err)
	}

	if deleteResp.rejected() {
		return fmt.Errorf("%w: delete job: %w", ErrRequestRejected, deleteResp.apiError())
	}

	return nil
}
