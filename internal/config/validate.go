package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"rosterclean/internal/roster"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "transform.impute_columns[1]"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// outputExtensions are the encodable file extensions.
var outputExtensions = map[string]struct{}{
	".xlsx":    {},
	".csv":     {},
	".parquet": {},
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Callers may decide whether to treat
// warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	for _, nl := range p.Locations() {
		issues = append(issues, validateLocation(nl.Path, nl.Location)...)
	}
	for _, nl := range []NamedLocation{{"report", p.Report}, {"output", p.Output}} {
		ext := strings.ToLower(filepath.Ext(nl.Location.Name()))
		if _, ok := outputExtensions[ext]; !ok && nl.Location.Name() != "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     nl.Path,
				Message:  fmt.Sprintf("unsupported output extension %q; use .xlsx, .csv or .parquet", ext),
			})
		}
	}
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransform(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	issues = append(issues, validateLogging(p.Logging)...)

	return issues
}

func validateLocation(path string, l Location) []Issue {
	var issues []Issue

	switch l.Kind {
	case KindFile:
		if strings.TrimSpace(l.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".path",
				Message:  "file location requires a non-empty path",
			})
		}
	case KindS3:
		if strings.TrimSpace(l.Bucket) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".bucket",
				Message:  "s3 location requires a bucket",
			})
		}
		if strings.TrimSpace(l.Key) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".key",
				Message:  "s3 location requires a key",
			})
		}
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  path + ".kind must not be empty",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  fmt.Sprintf("unknown location kind %q; use file or s3", l.Kind),
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	if p.Comma == "" {
		return nil
	}
	if utf8.RuneCountInString(p.Comma) != 1 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "parser.comma",
			Message:  fmt.Sprintf("comma must be a single character, got %q", p.Comma),
		}}
	}
	switch r := p.CommaRune(); r {
	case '"', '\r', '\n', utf8.RuneError:
		return []Issue{{
			Severity: SeverityError,
			Path:     "parser.comma",
			Message:  fmt.Sprintf("comma %q cannot be used as a field delimiter", r),
		}}
	}
	return nil
}

func validateTransform(t Transform) []Issue {
	var issues []Issue

	switch t.DedupPolicy {
	case "", "keep-first", "keep-last":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.dedup_policy",
			Message:  fmt.Sprintf("unknown dedup policy %q; use keep-first or keep-last", t.DedupPolicy),
		})
	}

	seen := map[string]bool{}
	for i, c := range t.ImputeColumns {
		path := fmt.Sprintf("transform.impute_columns[%d]", i)
		if !contains(roster.MeasureColumns, c) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("%q is not a numeric player column; use one of %s", c, strings.Join(roster.MeasureColumns, ", ")),
			})
			continue
		}
		if seen[c] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("column %q listed more than once", c),
			})
		}
		seen[c] = true
	}

	if t.GroupBy != "" && !contains(roster.TextColumns, t.GroupBy) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.group_by",
			Message:  fmt.Sprintf("%q is not a text player column; use one of %s", t.GroupBy, strings.Join(roster.TextColumns, ", ")),
		})
	}
	return issues
}

// validateStorage validates the optional archive sink.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if !s.Enabled() {
		return nil
	}

	known := map[string]struct{}{
		"mssql":    {},
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	db := s.DB
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(db.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}
	if db.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch strings.ToLower(m.Backend) {
	case "", "none":
		return nil
	case "pushgateway", "prom", "prometheus":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			return []Issue{{
				Severity: SeverityWarning,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend without a URL; PUSHGATEWAY_URL must be set at run time",
			}}
		}
		return nil
	case "datadog", "dogstatsd":
		return nil
	}
	return []Issue{{
		Severity: SeverityWarning,
		Path:     "metrics.backend",
		Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be discarded", m.Backend),
	}}
}

func validateLogging(l Logging) []Issue {
	if l.Level == "" {
		return nil
	}
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return []Issue{{
			Severity: SeverityError,
			Path:     "logging.level",
			Message:  err.Error(),
		}}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
