package slog

import (
	"log/slog"
	"time"

	"github.com/wkanaday/mepdir"
)

// Ensure LoggingExtractor implements mepdir.RecordExtractor.
var _ mepdir.RecordExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a RecordExtractor with debug logging of the
// discovery outcome of each page.
type LoggingExtractor struct {
	next   mepdir.RecordExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next mepdir.RecordExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractListing delegates and logs the strategy and counts.
func (e *LoggingExtractor) ExtractListing(html, pageURL string, rules *mepdir.SiteRules) (result *mepdir.ListingResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", pageURL, "duration", time.Since(begin)}
		if result != nil {
			strategy := result.Strategy
			if strategy == "" {
				strategy = "(none)"
			}
			attrs = append(attrs,
				"strategy", strategy,
				"containers", result.Containers,
				"records", len(result.Listings),
			)
		}
		e.logger.Debug("extract listing", append(attrs, "err", err)...)
	}(time.Now())
	return e.next.ExtractListing(html, pageURL, rules)
}

// ExtractProfile delegates and logs which fields the profile supplied.
func (e *LoggingExtractor) ExtractProfile(html, pageURL string, rules *mepdir.SiteRules) (rec *mepdir.StaffRecord, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", pageURL, "duration", time.Since(begin)}
		if rec != nil {
			attrs = append(attrs,
				"name", rec.Name != "",
				"phone", rec.Phone != "" || rec.Mobile != "",
				"email", rec.Email != "",
				"bio", rec.Bio != "",
			)
		}
		e.logger.Debug("extract profile", append(attrs, "err", err)...)
	}(time.Now())
	return e.next.ExtractProfile(html, pageURL, rules)
}
