// Package cloudprinttest provides an in-memory Google Cloud Print provider
// for tests.
//
// A Server speaks the subset of the Cloud Print API used by package
// cloudprint (/search, /printer, /submit, /jobs, /deletejob) plus an OAuth
// token endpoint, and records every submission so tests can inspect what was
// sent.
//
//	srv := cloudprinttest.NewServer()
//	defer srv.Close()
//	srv.AddPrinter(cloudprinttest.Printer{ID: "p1", Name: "office"})
//
//	client := cloudprint.New(cloudprint.WithBaseURL(srv.URL), cloudprint.WithAccessToken(srv.Token()))
package cloudprinttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultToken is the bearer token a new Server accepts.
const DefaultToken = "test-token"

// Printer is a printer registered with the fake provider.
type Printer struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DisplayName      string `json:"displayName"`
	OwnerName        string `json:"ownerName,omitempty"`
	ConnectionStatus string `json:"connectionStatus"`
}

// Job is a job held by the fake provider.
type Job struct {
	ID          string `json:"id"`
	PrinterID   string `json:"printerid"`
	Title       string `json:"title"`
	ContentType string `json:"contentType"`
	Status      string `json:"status"`
}

// Submission records the form fields of one /submit call.
type Submission struct {
	JobID                   string
	PrinterID               string
	Title                   string
	ContentType             string
	Content                 string
	ContentTransferEncoding string
	Ticket                  string
}

// Server is a fake Cloud Print provider backed by an httptest.Server.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	token         string
	refreshToken  string
	printers      []Printer
	jobs          []Job
	submissions   []Submission
	rejectCode    string
	rejectMessage string
}

// NewServer starts a fake provider. Callers must Close it.
func NewServer() *Server {
	s := &Server{token: DefaultToken}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/search", s.authorized(s.handleSearch))
	mux.HandleFunc("/printer", s.authorized(s.handlePrinter))
	mux.HandleFunc("/submit", s.authorized(s.handleSubmit))
	mux.HandleFunc("/jobs", s.authorized(s.handleJobs))
	mux.HandleFunc("/deletejob", s.authorized(s.handleDeleteJob))

	s.Server = httptest.NewServer(mux)
	return s
}

// TokenURL returns the URL of the fake OAuth token endpoint.
func (s *Server) TokenURL() string {
	return s.URL + "/token"
}

// Token returns the bearer token the server accepts.
func (s *Server) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken changes the bearer token the server accepts and issues.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// SetRefreshToken makes the token endpoint accept only refreshToken.
// Until it is called any refresh token is accepted.
func (s *Server) SetRefreshToken(refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = refreshToken
}

// AddPrinter registers a printer.
func (s *Server) AddPrinter(p Printer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ConnectionStatus == "" {
		p.ConnectionStatus = "ONLINE"
	}
	s.printers = append(s.printers, p)
}

// RejectSubmit makes every following submission fail with code and message.
// An empty code restores normal behaviour.
func (s *Server) RejectSubmit(code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectCode = code
	s.rejectMessage = message
}

// SetJobStatus changes the status of a job. It reports whether the job exists.
func (s *Server) SetJobStatus(jobID, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == jobID {
			s.jobs[i].Status = status
			return true
		}
	}
	return false
}

// Jobs returns a copy of the jobs held by the server.
func (s *Server) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.jobs...)
}

// Submissions returns a copy of every recorded submission.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.Token() {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"success":   false,
				"errorCode": 403,
				"message":   "User credentials required",
			})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "invalid_request"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
		return
	}

	s.mu.Lock()
	want, token := s.refreshToken, s.token
	s.mu.Unlock()

	if r.PostForm.Get("grant_type") != "refresh_token" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	if want != "" && r.PostForm.Get("refresh_token") != want {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"expires_in":   3600,
		"token_type":   "Bearer",
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))

	s.mu.Lock()
	var printers []Printer
	for _, p := range s.printers {
		if query == "" ||
			strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.DisplayName), query) {
			printers = append(printers, p)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"printers": printers,
	})
}

func (s *Server) handlePrinter(w http.ResponseWriter, r *http.Request) {
	printerID := r.URL.Query().Get("printerid")

	s.mu.Lock()
	printers := []Printer{}
	for _, p := range s.printers {
		if p.ID == printerID {
			printers = append(printers, p)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"printers": printers,
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "message": "POST required"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rejectCode != "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   false,
			"errorCode": s.rejectCode,
			"message":   s.rejectMessage,
		})
		return
	}

	printerID := r.PostForm.Get("printerid")
	if !s.hasPrinter(printerID) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   false,
			"errorCode": 8,
			"message":   "Printer not found",
		})
		return
	}

	job := Job{
		ID:          uuid.NewString(),
		PrinterID:   printerID,
		Title:       r.PostForm.Get("title"),
		ContentType: r.PostForm.Get("contentType"),
		Status:      "QUEUED",
	}
	s.jobs = append(s.jobs, job)
	s.submissions = append(s.submissions, Submission{
		JobID:                   job.ID,
		PrinterID:               printerID,
		Title:                   job.Title,
		ContentType:             job.ContentType,
		Content:                 r.PostForm.Get("content"),
		ContentTransferEncoding: r.PostForm.Get("contentTransferEncoding"),
		Ticket:                  r.PostForm.Get("ticket"),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Print job added.",
		"job":     job,
	})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	printerID := r.URL.Query().Get("printerid")
	status := r.URL.Query().Get("status")

	s.mu.Lock()
	jobs := []Job{}
	for _, j := range s.jobs {
		if printerID != "" && j.PrinterID != printerID {
			continue
		}
		if status != "" && j.Status != status {
			continue
		}
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"jobs":    jobs,
	})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}
	jobID := r.Form.Get("jobid")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID == jobID {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Print job deleted successfully."})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   false,
		"errorCode": 413,
		"message":   "Job not found",
	})
}

func (s *Server) hasPrinter(printerID string) bool {
	for _, p := range s.printers {
		if p.ID == printerID {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
