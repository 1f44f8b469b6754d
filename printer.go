package cloudprint

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Printer connection states reported by Cloud Print.
const (
	ConnectionOnline  = "ONLINE"
	ConnectionOffline = "OFFLINE"
	ConnectionDormant = "DORMANT"
	ConnectionUnknown = "UNKNOWN"
)

// Printer represents a printer registered with Cloud Print.
type Printer struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName"`
	OwnerName        string   `json:"ownerName,omitempty"` // empty when the provider omits it
	ConnectionStatus string   `json:"connectionStatus"`
	Description      string   `json:"description,omitempty"`
	Proxy            string   `json:"proxy,omitempty"`
	Type             string   `json:"type,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// IsOnline reports whether the printer is currently connected.
func (p *Printer) IsOnline() bool {
	return p.ConnectionStatus == ConnectionOnline
}

type printersResponse struct {
	apiResponse
	Printers []Printer `json:"printers"`
}

// ListPrinters returns every printer visible to the authenticated user, in
// the order the provider returns them. A user without printers yields an
// empty slice.
func (c *Client) ListPrinters(ctx context.Context) ([]Printer, error) {
	return c.SearchPrinters(ctx, "")
}

// SearchPrinters returns the printers matching query. An empty query lists all printers.
func (c *Client) SearchPrinters(ctx context.Context, query string) ([]Printer, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, searchEndpoint, params)
	if err != nil {
		return nil, fmt.Errorf("searching printers: %w", err)
	}

	var printersResp printersResponse
	if err := parseResponse(resp, &printersResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	if printersResp.rejected() {
		return nil, fmt.Errorf("%w: search printers: %w", ErrRequestRejected, printersResp.apiError())
	}

	if printersResp.Printers == nil {
		return []Printer{}, nil
	}

	return printersResp.Printers, nil
}

// GetPrinter retrieves details for a specific printer.
func (c *Client) GetPrinter(ctx context.Context, printerID string) (*Printer, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if printerID == "" {
		return nil, fmt.Errorf("%w: printer ID is required", ErrInvalidArgument)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, printerEndpoint, url.Values{"printerid": {printerID}})
	if err != nil {
		return nil, fmt.Errorf("getting printer: %w", err)
	}

	var printerResp printersResponse
	if err := parseResponse(resp, &printerResp); err != nil {
		return nil, fmt.Errorf("parsing printer response: %w", err)
	}

	if printerResp.rejected() {
		return nil, fmt.Errorf("%w: get printer: %w", ErrRequestRejected, printerResp.apiError())
	}

	if len(printerResp.Printers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPrinterNotFound, printerID)
	}

	return &printerResp.Printers[0], nil
}

// FindPrinterByName finds a printer whose name or display name equals name.
func (c *Client) FindPrinterByName(ctx context.Context, name string) (*Printer, error) {
	printers, err := c.SearchPrinters(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("getting printers: %w", err)
	}

	for i := range printers {
		printer := &printers[i]
		if printer.Name == name || printer.DisplayName == name {
			return printer, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrPrinterNotFound, name)
}
