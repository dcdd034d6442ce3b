package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"rosterclean/internal/config"
	"rosterclean/internal/datasource"
	"rosterclean/internal/metrics"
	csvparser "rosterclean/internal/parser/csv"
	"rosterclean/internal/report"
	"rosterclean/internal/storage"
	"rosterclean/internal/transformer/builtin"
)

// Step names, used in logs, metrics and StepError.
const (
	StepDeduplicate  = "deduplicate"
	StepImpute       = "empty_to_average"
	StepPositions    = "players_by_position"
	StepSecondOutput = "second_output"
	StepArchive      = "archive"
)

// StepError reports the step a run halted on.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Endpoints resolves configured locations to concrete sources and sinks.
type Endpoints interface {
	Source(loc config.Location) (datasource.Source, error)
	Sink(loc config.Location) (datasource.Sink, error)
}

// Summary reports what a run did.
type Summary struct {
	PlayersRead       int
	DuplicatesDropped int
	Players           int
	Imputed           []builtin.ImputeResult
	Positions         []report.Count
	TeamsRead         int
	Joined            int
	Archived          int64
}

// newRepository is a test seam for the archive step.
var newRepository = storage.New

// Runner executes one configured run. Steps run in order and the run halts
// on the first failure.
type Runner struct {
	Pipeline  config.Pipeline
	Endpoints Endpoints
	Log       logrus.FieldLogger
	RunID     string
}

// Run executes the pipeline. The returned error is a *StepError.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var (
		p   = r.Pipeline
		sum Summary
		prs = csvparser.NewParser(csvparser.Options{
			Comma:      p.Parser.CommaRune(),
			LazyQuotes: p.Parser.LazyQuotes,
		})
		dedup  DedupResult
		joined JoinResult
	)

	r.Log.WithField("pipeline", p.Describe()).Info("run started")
	start := time.Now()

	err := r.step(StepDeduplicate, func(log logrus.FieldLogger) error {
		src, err := r.Endpoints.Source(p.Players)
		if err != nil {
			return err
		}
		dedup, err = Deduplicate(ctx, src, prs, p.Transform.DedupPolicy)
		if err != nil {
			return err
		}
		sum.PlayersRead, sum.DuplicatesDropped, sum.Players = dedup.Read, dedup.Dropped, len(dedup.Players)
		metrics.RecordRow(p.Job, metrics.RowsPlayersRead, int64(dedup.Read))
		metrics.RecordRow(p.Job, metrics.RowsDuplicatesDropped, int64(dedup.Dropped))
		metrics.RecordRow(p.Job, metrics.RowsPlayersKept, int64(len(dedup.Players)))
		log.WithFields(logrus.Fields{
			"source":  p.Players.String(),
			"read":    dedup.Read,
			"dropped": dedup.Dropped,
			"kept":    len(dedup.Players),
		}).Info("players deduplicated")
		return nil
	})
	if err != nil {
		return sum, err
	}

	err = r.step(StepImpute, func(log logrus.FieldLogger) error {
		results, err := EmptyToAverage(dedup.Players, p.Transform.ImputeColumns...)
		if err != nil {
			return err
		}
		sum.Imputed = results
		for _, res := range results {
			fields := logrus.Fields{"column": res.Column, "filled": res.Filled}
			if res.Skipped {
				log.WithFields(fields).Warn("column has no values; left missing")
				continue
			}
			metrics.RecordRow(p.Job, metrics.RowsImputed, int64(res.Filled))
			fields["mean"] = res.Mean
			log.WithFields(fields).Info("missing values filled with column mean")
		}
		return nil
	})
	if err != nil {
		return sum, err
	}

	err = r.step(StepPositions, func(log logrus.FieldLogger) error {
		sink, format, err := r.output(p.Report)
		if err != nil {
			return err
		}
		counts, err := PlayersByPosition(ctx, dedup.Players, p.Transform.GroupBy, sink, format)
		if err != nil {
			return err
		}
		sum.Positions = counts
		log.WithFields(logrus.Fields{"sink": p.Report.String(), "groups": len(counts)}).Info("report written")
		return nil
	})
	if err != nil {
		return sum, err
	}

	err = r.step(StepSecondOutput, func(log logrus.FieldLogger) error {
		src, err := r.Endpoints.Source(p.Teams)
		if err != nil {
			return err
		}
		sink, format, err := r.output(p.Output)
		if err != nil {
			return err
		}
		joined, err = SecondOutput(ctx, src, prs, dedup.Players, sink, format)
		if err != nil {
			return err
		}
		sum.TeamsRead, sum.Joined = joined.TeamsRead, len(joined.Rows)
		metrics.RecordRow(p.Job, metrics.RowsTeamsRead, int64(joined.TeamsRead))
		metrics.RecordRow(p.Job, metrics.RowsJoined, int64(len(joined.Rows)))
		log.WithFields(logrus.Fields{
			"source": p.Teams.String(),
			"sink":   p.Output.String(),
			"teams":  joined.TeamsRead,
			"rows":   len(joined.Rows),
		}).Info("joined output written")
		return nil
	})
	if err != nil {
		return sum, err
	}

	if p.Storage.Enabled() {
		err = r.step(StepArchive, func(log logrus.FieldLogger) error {
			n, err := r.archive(ctx, log, joined)
			sum.Archived = n
			return err
		})
		if err != nil {
			return sum, err
		}
	}

	r.Log.WithField("elapsed", time.Since(start).Truncate(time.Millisecond)).Info("run completed")
	return sum, nil
}

// step times fn, records its outcome and wraps a failure in StepError.
func (r *Runner) step(name string, fn func(log logrus.FieldLogger) error) error {
	log := r.Log.WithField("step", name)
	start := time.Now()
	err := fn(log)
	d := time.Since(start)
	metrics.RecordStep(r.Pipeline.Job, name, err, d)
	if err != nil {
		log.WithError(err).WithField("elapsed", d.Truncate(time.Millisecond)).Error("step failed")
		return &StepError{Step: name, Err: err}
	}
	log.WithField("elapsed", d.Truncate(time.Millisecond)).Debug("step finished")
	return nil
}

func (r *Runner) output(loc config.Location) (datasource.Sink, report.Format, error) {
	format, err := report.FormatFromName(loc.Name())
	if err != nil {
		return nil, "", err
	}
	sink, err := r.Endpoints.Sink(loc)
	if err != nil {
		return nil, "", err
	}
	return sink, format, nil
}

func (r *Runner) archive(ctx context.Context, log logrus.FieldLogger, joined JoinResult) (int64, error) {
	st := r.Pipeline.Storage
	td := storage.ArchiveTable(st.DB.Table)

	repo, err := newRepository(ctx, storage.Config{
		Kind:    st.Kind,
		DSN:     st.DB.DSN,
		Table:   st.DB.Table,
		Columns: td.ColumnNames(),
	})
	if err != nil {
		return 0, fmt.Errorf("open %s archive: %w", st.Kind, err)
	}
	defer repo.Close()

	if st.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, st.Kind, repo, td); err != nil {
			return 0, err
		}
	}

	batchSize := st.DB.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	rows := storage.ArchiveRows(r.RunID, joined.Rows)
	n, err := storage.CopyInBatches(ctx, td.ColumnNames(), rows, batchSize, repo.CopyFrom, log)
	metrics.RecordRow(r.Pipeline.Job, metrics.RowsArchived, n)
	if err != nil {
		return n, err
	}
	metrics.RecordBatches(r.Pipeline.Job, (n+int64(batchSize)-1)/int64(batchSize))
	log.WithFields(logrus.Fields{"kind": st.Kind, "table": st.DB.Table, "rows": n}).Info("rows archived")
	return n, nil
}
