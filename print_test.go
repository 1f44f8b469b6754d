package cloudprint

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enthus-golang/cloudprint/cloudprinttest"
)

// submittedForm decodes the form body of a recorded submit request.
func submittedForm(t *testing.T, req *http.Request) url.Values {
	t.Helper()
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	form, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	return form
}

func TestClient_Submit(t *testing.T) {
	pdf := []byte("%PDF-1.4\x00\x01binary")

	tests := []struct {
		name        string
		job         *PrintJob
		response    string
		want        string
		wantErr     error
		checkForm   func(t *testing.T, form url.Values)
		wantAPIErr  *APIError
		wantNoCalls bool
	}{
		{
			name: "url content is passed verbatim",
			job: &PrintJob{
				PrinterID:   "p1",
				Title:       "Doc",
				Content:     []byte("http://example.com/doc.pdf"),
				ContentType: ContentTypeURL,
			},
			response: `{"success":"1","job":{"id":"J1"}}`,
			want:     "J1",
			checkForm: func(t *testing.T, form url.Values) {
				assert.Equal(t, "http://example.com/doc.pdf", form.Get("content"))
				assert.Equal(t, "url", form.Get("contentType"))
				_, ok := form["contentTransferEncoding"]
				assert.False(t, ok, "url jobs must not carry contentTransferEncoding")
				_, ok = form["ticket"]
				assert.False(t, ok)
			},
		},
		{
			name: "binary content is base64 encoded",
			job: &PrintJob{
				PrinterID:   "p1",
				Title:       "Doc",
				Content:     pdf,
				ContentType: "application/pdf",
			},
			response: `{"success":"1","job":{"id":"J2"}}`,
			want:     "J2",
			checkForm: func(t *testing.T, form url.Values) {
				assert.Equal(t, base64.StdEncoding.EncodeToString(pdf), form.Get("content"))
				assert.Equal(t, "base64", form.Get("contentTransferEncoding"))
				assert.Equal(t, "application/pdf", form.Get("contentType"))
				assert.Equal(t, "p1", form.Get("printerid"))
				assert.Equal(t, "Doc", form.Get("title"))
			},
		},
		{
			name: "ticket is sent as json",
			job: &PrintJob{
				PrinterID:   "p1",
				Title:       "Doc",
				Content:     pdf,
				ContentType: "application/pdf",
				Ticket:      Ticket{"version": "1.0", "print": map[string]any{"copies": map[string]any{"copies": 2}}},
			},
			response: `{"success":true,"job":{"id":"J3"}}`,
			want:     "J3",
			checkForm: func(t *testing.T, form url.Values) {
				var ticket map[string]any
				require.NoError(t, json.Unmarshal([]byte(form.Get("ticket")), &ticket))
				assert.Equal(t, "1.0", ticket["version"])
			},
		},
		{
			name: "provider rejects the job",
			job: &PrintJob{
				PrinterID:   "p1",
				Content:     pdf,
				ContentType: "application/pdf",
			},
			response:   `{"success":"0","errorCode":"E1","message":"bad"}`,
			wantErr:    ErrPrintSubmitFailed,
			wantAPIErr: &APIError{Code: "E1", Message: "bad"},
		},
		{
			name: "unrecognized success value is a failure",
			job: &PrintJob{
				PrinterID:   "p1",
				Content:     pdf,
				ContentType: "application/pdf",
			},
			response:   `{"success":"yes","errorCode":"E1","message":"bad"}`,
			wantErr:    ErrPrintSubmitFailed,
			wantAPIErr: &APIError{Code: "E1", Message: "bad"},
		},
		{
			name: "numeric zero success is a failure",
			job: &PrintJob{
				PrinterID:   "p1",
				Content:     pdf,
				ContentType: "application/pdf",
			},
			response:   `{"success":0,"errorCode":7,"message":"offline"}`,
			wantErr:    ErrPrintSubmitFailed,
			wantAPIErr: &APIError{Code: "7", Message: "offline"},
		},
		{
			name: "success without job id",
			job: &PrintJob{
				PrinterID: "p1",
				Content:   pdf,
			},
			response: `{"success":"1"}`,
			wantErr:  ErrMalformedResponse,
		},
		{
			name:        "printer id is required",
			job:         &PrintJob{Content: pdf},
			wantErr:     ErrInvalidArgument,
			wantNoCalls: true,
		},
		{
			name:        "nil job",
			job:         nil,
			wantErr:     ErrInvalidArgument,
			wantNoCalls: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests []*http.Request
			client := New(WithHTTPClient(stubDoer(tt.response, &requests)), WithAccessToken("tok"))

			got, err := client.Submit(context.Background(), tt.job)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantAPIErr != nil {
					var apiErr *APIError
					require.True(t, errors.As(err, &apiErr))
					assert.Equal(t, tt.wantAPIErr, apiErr)
				}
				if tt.wantNoCalls {
					assert.Empty(t, requests)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, requests, 1)
			assert.Equal(t, http.MethodPost, requests[0].Method)
			assert.Equal(t, "https://www.google.com/cloudprint/submit", requests[0].URL.String())
			assert.Equal(t, "Bearer tok", requests[0].Header.Get("Authorization"))
			if tt.checkForm != nil {
				tt.checkForm(t, submittedForm(t, requests[0]))
			}
		})
	}
}

func TestClient_Submit_authCheckedBeforeArguments(t *testing.T) {
	_, err := New().Submit(context.Background(), &PrintJob{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestClient_PrintData(t *testing.T) {
	srv := cloudprinttest.NewServer()
	defer srv.Close()
	srv.AddPrinter(cloudprinttest.Printer{ID: "p1", Name: "office"})

	client := New(WithBaseURL(srv.URL), WithAccessToken(srv.Token()))

	jobID, err := client.PrintData(context.Background(), "p1", "Invoice", []byte("hello"), "text/plain", &PrintOptions{
		Copies: 2,
		Duplex: DuplexLongEdge,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, jobID)

	submissions := srv.Submissions()
	require.Len(t, submissions, 1)
	assert.Equal(t, jobID, submissions[0].JobID)
	assert.Equal(t, "Invoice", submissions[0].Title)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), submissions[0].Content)
	assert.Equal(t, "base64", submissions[0].ContentTransferEncoding)
	assert.Contains(t, submissions[0].Ticket, `"LONG_EDGE"`)
}

func TestClient_PrintURL(t *testing.T) {
	srv := cloudprinttest.NewServer()
	defer srv.Close()
	srv.AddPrinter(cloudprinttest.Printer{ID: "p1", Name: "office"})

	client := New(WithBaseURL(srv.URL), WithAccessToken(srv.Token()))

	jobID, err := client.PrintURL(context.Background(), "p1", "Web page", "https://example.com/page.pdf", nil)
	require.NoError(t, err)

	submissions := srv.Submissions()
	require.Len(t, submissions, 1)
	assert.Equal(t, jobID, submissions[0].JobID)
	assert.Equal(t, "https://example.com/page.pdf", submissions[0].Content)
	assert.Equal(t, ContentTypeURL, submissions[0].ContentType)
	assert.Empty(t, submissions[0].ContentTransferEncoding)
	assert.Empty(t, submissions[0].Ticket)
}

func TestClient_PrintData_rejected(t *testing.T) {
	srv := cloudprinttest.NewServer()
	defer srv.Close()

	client := New(WithBaseURL(srv.URL), WithAccessToken(srv.Token()))

	_, err := client.PrintData(context.Background(), "unknown", "Doc", []byte("x"), "text/plain", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrintSubmitFailed)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "8", apiErr.Code)
	assert.Equal(t, "Printer not found", apiErr.Message)

	srv.AddPrinter(cloudprinttest.Printer{ID: "p1"})
	srv.RejectSubmit("E42", "out of paper")
	_, err = client.PrintData(context.Background(), "p1", "Doc", []byte("x"), "text/plain", nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "E42", apiErr.Code)
}

func TestClient_PrintData_invalidOptions(t *testing.T) {
	var requests []*http.Request
	client := New(WithHTTPClient(stubDoer(`{}`, &requests)), WithAccessToken("tok"))

	_, err := client.PrintData(context.Background(), "p1", "Doc", []byte("x"), "text/plain", &PrintOptions{Duplex: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, requests)
}

func TestContentTypeForFile(t *testing.T) {
	tests := map[string]string{
		"/tmp/report.pdf": "application/pdf",
		"label.ZPL":       "application/zpl",
		"job.pcl":         "application/vnd.hp-PCL",
		"page.ps":         "application/postscript",
		"notes.txt":       "text/plain",
		"photo.jpeg":      "image/jpeg",
		"no-extension":    "application/pdf",
		"doc.xps":         "application/vnd.ms-xpsdocument",
		"screenshot.png":  "image/png",
		"letter.docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, ContentTypeForFile(path))
		})
	}
}
