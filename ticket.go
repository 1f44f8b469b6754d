package cloudprint

import (
	"fmt"
	"strconv"
	"strings"
)

// Ticket is a print ticket document, sent JSON encoded with the job. The
// client does not interpret it.
type Ticket map[string]any

// Duplex modes.
const (
	DuplexNone      = "none"
	DuplexLongEdge  = "long-edge"
	DuplexShortEdge = "short-edge"
)

// Orientations.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
	OrientationAuto      = "auto"
)

// PrintOptions represents common print job options.
type PrintOptions struct {
	Copies      int
	Color       bool
	Duplex      string // DuplexNone, DuplexLongEdge or DuplexShortEdge
	PageRange   string // e.g. "1-3,5,8-"
	Orientation string // OrientationPortrait, OrientationLandscape or OrientationAuto
	MediaSize   *MediaSize
}

// MediaSize is a paper size in microns.
type MediaSize struct {
	WidthMicrons  int
	HeightMicrons int
}

// Common media sizes.
var (
	MediaA4     = &MediaSize{WidthMicrons: 210000, HeightMicrons: 297000}
	MediaLetter = &MediaSize{WidthMicrons: 215900, HeightMicrons: 279400}
)

// Ticket builds a version 1.0 Cloud Job Ticket from the options.
func (o *PrintOptions) Ticket() (Ticket, error) {
	section := map[string]any{}

	colorType := "STANDARD_MONOCHROME"
	if o.Color {
		colorType = "STANDARD_COLOR"
	}
	section["color"] = map[string]any{"type": colorType}

	if o.Copies > 0 {
		section["copies"] = map[string]any{"copies": o.Copies}
	}

	if o.Duplex != "" {
		var duplexType string
		switch o.Duplex {
		case DuplexNone:
			duplexType = "NO_DUPLEX"
		case DuplexLongEdge:
			duplexType = "LONG_EDGE"
		case DuplexShortEdge:
			duplexType = "SHORT_EDGE"
		default:
			return nil, fmt.Errorf("%w: unknown duplex mode %q", ErrInvalidArgument, o.Duplex)
		}
		section["duplex"] = map[string]any{"type": duplexType}
	}

	if o.Orientation != "" {
		switch o.Orientation {
		case OrientationPortrait, OrientationLandscape, OrientationAuto:
			section["page_orientation"] = map[string]any{"type": strings.ToUpper(o.Orientation)}
		default:
			return nil, fmt.Errorf("%w: unknown orientation %q", ErrInvalidArgument, o.Orientation)
		}
	}

	if o.PageRange != "" {
		intervals, err := parsePageRange(o.PageRange)
		if err != nil {
			return nil, err
		}
		section["page_range"] = map[string]any{"interval": intervals}
	}

	if o.MediaSize != nil {
		section["media_size"] = map[string]any{
			"width_microns":  o.MediaSize.WidthMicrons,
			"height_microns": o.MediaSize.HeightMicrons,
		}
	}

	return Ticket{"version": "1.0", "print": section}, nil
}

// parsePageRange turns "1-3,5,8-" into CJT page range intervals. An open
// interval has no end.
func parsePageRange(s string) ([]map[string]int, error) {
	var intervals []map[string]int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		startStr, endStr, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil || start < 1 {
			return nil, fmt.Errorf("%w: invalid page range %q", ErrInvalidArgument, part)
		}

		interval := map[string]int{"start": start}
		switch {
		case !isRange:
			interval["end"] = start
		case strings.TrimSpace(endStr) != "":
			end, err := strconv.Atoi(strings.TrimSpace(endStr))
			if err != nil || end < start {
				return nil, fmt.Errorf("%w: invalid page range %q", ErrInvalidArgument, part)
			}
			interval["end"] = end
		}
		intervals = append(intervals, interval)
	}

	if len(intervals) == 0 {
		return nil, fmt.Errorf("%w: empty page range", ErrInvalidArgument)
	}

	return intervals, nil
}
