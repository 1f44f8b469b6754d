// Package cloudprint provides a client for the Google Cloud Print API.
//
// The API lets applications submit print jobs to the printers registered to a
// Google account and follow the jobs' status. Documents are sent either as
// bytes (base64 encoded on the wire) or as a URL the service fetches.
//
// Basic usage:
//
//	client := cloudprint.New()
//
//	token, err := client.ExchangeRefreshToken(ctx, cloudprint.GoogleTokenURL,
//		cloudprint.RefreshTokenFields(clientID, clientSecret, refreshToken))
//	client.SetAccessToken(token)
//
//	// Get available printers
//	printers, err := client.ListPrinters(ctx)
//
//	// Print a PDF
//	jobID, err := client.PrintData(ctx, printerID, "My Document", pdf, "application/pdf", nil)
//
//	// Poll its status
//	status, err := client.GetJobStatus(ctx, jobID)
//
// Every method performs at most one HTTP request and never retries. Errors
// can be classified with errors.Is against ErrNotAuthenticated,
// ErrInvalidArgument, ErrTransport, ErrMalformedResponse, ErrPrintSubmitFailed,
// ErrRequestRejected and ErrPrinterNotFound; provider error codes are
// available through errors.As with *APIError.
package cloudprint
