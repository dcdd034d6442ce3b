// Package config defines the serializable configuration model for a cleaning
// run. A Pipeline can be decoded from a JSON or YAML file, or built from the
// two fixed presets (LocalDefaults, S3Defaults) that reproduce the classic
// local-file and object-store runs.
//
// Example (YAML):
//
//	job: roster
//	players: { kind: s3, bucket: bucket_name, key: path/in/s3/players.csv }
//	teams:   { kind: s3, bucket: bucket_name, key: path/in/s3/teams.csv }
//	report:  { kind: file, path: players_by_positions.xlsx }
//	output:  { kind: s3, bucket: bucket_name, key: final_output.csv }
//	storage: { kind: sqlite, db: { dsn: roster.db, table: final_output, auto_create_table: true } }
package config

import (
	"fmt"
	"strings"
)

// Location kinds.
const (
	KindFile = "file"
	KindS3   = "s3"
)

// Fixed names used by the presets.
const (
	DefaultJob         = "roster"
	DefaultLogFile     = "scale.log"
	DefaultPlayersFile = "players.csv"
	DefaultTeamsFile   = "teams.csv"
	DefaultReportFile  = "players_by_positions.xlsx"
	DefaultOutputFile  = "final_output.xlsx"
	DefaultBucket      = "bucket_name"
	DefaultPlayersKey  = "path/in/s3/players.csv"
	DefaultTeamsKey    = "path/in/s3/teams.csv"
	DefaultOutputKey   = "final_output.csv"
	DefaultGroupBy     = "Position"
)

// DefaultImputeColumns are the measurements filled with their column mean.
var DefaultImputeColumns = []string{"Height", "Weight"}

// Pipeline describes one cleaning run end to end.
type Pipeline struct {
	// Job names the run in logs and metrics.
	Job string `json:"job" yaml:"job"`

	// Players and Teams are the two input tables.
	Players Location `json:"players" yaml:"players"`
	Teams   Location `json:"teams" yaml:"teams"`

	// Report receives the per-position counts; Output receives the joined
	// table. The format follows the extension (.xlsx, .csv, .parquet).
	Report Location `json:"report" yaml:"report"`
	Output Location `json:"output" yaml:"output"`

	Parser    Parser    `json:"parser" yaml:"parser"`
	Transform Transform `json:"transform" yaml:"transform"`

	// Storage optionally archives the joined rows into a database table.
	// An empty kind (or "none") disables it.
	Storage Storage `json:"storage" yaml:"storage"`

	Metrics Metrics `json:"metrics" yaml:"metrics"`
	Logging Logging `json:"logging" yaml:"logging"`
}

// Location addresses a table either on the local filesystem or in an S3
// bucket.
type Location struct {
	// Kind is "file" or "s3".
	Kind string `json:"kind" yaml:"kind"`

	// Path is used by the "file" kind.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Bucket and Key are used by the "s3" kind.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
}

// Name returns the path or object key; its extension selects the format.
func (l Location) Name() string {
	if l.Kind == KindS3 {
		return l.Key
	}
	return l.Path
}

func (l Location) String() string {
	if l.Kind == KindS3 {
		return "s3://" + l.Bucket + "/" + strings.TrimPrefix(l.Key, "/")
	}
	return l.Path
}

// File returns a local file location.
func File(path string) Location { return Location{Kind: KindFile, Path: path} }

// Object returns an S3 object location.
func Object(bucket, key string) Location { return Location{Kind: KindS3, Bucket: bucket, Key: key} }

// Parser configures the CSV reader for both inputs.
type Parser struct {
	// Comma is the field delimiter; "" means ",".
	Comma string `json:"comma,omitempty" yaml:"comma,omitempty"`

	// LazyQuotes tolerates stray quotes in unquoted fields.
	LazyQuotes bool `json:"lazy_quotes,omitempty" yaml:"lazy_quotes,omitempty"`
}

// Transform configures the cleaning steps.
type Transform struct {
	// DedupPolicy selects the surviving row of a duplicate group after the
	// completeness sort: "keep-first" (default) or "keep-last".
	DedupPolicy string `json:"dedup_policy,omitempty" yaml:"dedup_policy,omitempty"`

	// ImputeColumns are filled with their column mean.
	ImputeColumns []string `json:"impute_columns,omitempty" yaml:"impute_columns,omitempty"`

	// GroupBy is the text column counted in the report.
	GroupBy string `json:"group_by,omitempty" yaml:"group_by,omitempty"`
}

// Storage selects the archive sink for the joined rows.
type Storage struct {
	// Kind is "sqlite", "postgres", or empty to disable archiving.
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// Enabled reports whether an archive sink is configured.
func (s Storage) Enabled() bool {
	k := strings.TrimSpace(s.Kind)
	return k != "" && k != "none"
}

// DBConfig configures the archive table.
type DBConfig struct {
	// DSN is the connection string (pgx DSN or SQLite file/URI).
	DSN string `json:"dsn" yaml:"dsn"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table" yaml:"table"`

	// AutoCreateTable creates the table when it does not exist.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`

	// BatchSize bounds rows per insert batch; 0 means 500.
	BatchSize int `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none" (default), "pushgateway" or "datadog".
	Backend        string   `json:"backend" yaml:"backend"`
	PushgatewayURL string   `json:"pushgateway_url,omitempty" yaml:"pushgateway_url,omitempty"`
	DatadogAddr    string   `json:"datadog_addr,omitempty" yaml:"datadog_addr,omitempty"`
	Namespace      string   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Logging configures the run log.
type Logging struct {
	// File is appended to on every run.
	File string `json:"file" yaml:"file"`

	// Level is a logrus level name; "info" by default.
	Level string `json:"level" yaml:"level"`
}

// LocalDefaults returns the local-file run: players.csv and teams.csv from
// the working directory, both outputs written as xlsx next to them.
func LocalDefaults() Pipeline {
	p := Pipeline{
		Players: File(DefaultPlayersFile),
		Teams:   File(DefaultTeamsFile),
		Report:  File(DefaultReportFile),
		Output:  File(DefaultOutputFile),
	}
	p.ApplyDefaults()
	return p
}

// S3Defaults returns the object-store run: both inputs read from bucket, the
// report written locally and final_output.csv uploaded back to bucket.
func S3Defaults(bucket string) Pipeline {
	if bucket == "" {
		bucket = DefaultBucket
	}
	p := Pipeline{
		Players: Object(bucket, DefaultPlayersKey),
		Teams:   Object(bucket, DefaultTeamsKey),
		Report:  File(DefaultReportFile),
		Output:  Object(bucket, DefaultOutputKey),
	}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills unset optional fields in place.
func (p *Pipeline) ApplyDefaults() {
	if strings.TrimSpace(p.Job) == "" {
		p.Job = DefaultJob
	}
	if strings.TrimSpace(p.Transform.DedupPolicy) == "" {
		p.Transform.DedupPolicy = "keep-first"
	}
	if len(p.Transform.ImputeColumns) == 0 {
		p.Transform.ImputeColumns = append([]string(nil), DefaultImputeColumns...)
	}
	if strings.TrimSpace(p.Transform.GroupBy) == "" {
		p.Transform.GroupBy = DefaultGroupBy
	}
	if p.Storage.Enabled() && p.Storage.DB.BatchSize <= 0 {
		p.Storage.DB.BatchSize = 500
	}
	if strings.TrimSpace(p.Metrics.Backend) == "" {
		p.Metrics.Backend = "none"
	}
	if strings.TrimSpace(p.Logging.File) == "" {
		p.Logging.File = DefaultLogFile
	}
	if strings.TrimSpace(p.Logging.Level) == "" {
		p.Logging.Level = "info"
	}
}

// CommaRune returns the parser delimiter rune, ',' when unset.
func (p Parser) CommaRune() rune {
	if p.Comma == "" {
		return ','
	}
	return []rune(p.Comma)[0]
}

// Locations lists every location of the pipeline with its config path, in
// pipeline order.
func (p Pipeline) Locations() []NamedLocation {
	return []NamedLocation{
		{"players", p.Players},
		{"teams", p.Teams},
		{"report", p.Report},
		{"output", p.Output},
	}
}

// NamedLocation pairs a location with its config path.
type NamedLocation struct {
	Path     string
	Location Location
}

// UsesS3 reports whether any location lives in S3.
func (p Pipeline) UsesS3() bool {
	for _, nl := range p.Locations() {
		if nl.Location.Kind == KindS3 {
			return true
		}
	}
	return false
}

// Describe renders a one-line summary for logs.
func (p Pipeline) Describe() string {
	return fmt.Sprintf("players=%s teams=%s report=%s output=%s storage=%s",
		p.Players, p.Teams, p.Report, p.Output, orNone(p.Storage.Kind))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
