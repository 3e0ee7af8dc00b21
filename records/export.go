package records

import (
	"context"

	"golang.org/x/sync/errgroup"

	auth "github.com/goliatone/go-campus-auth"
)

const (
	exportVersion = "5.2.1"
	exportComment = "Export to JSON plugin for PHPMyAdmin"
)

// DefaultExportTables lists the tables of the campus database dump
var DefaultExportTables = []string{
	"classes",
	"emploi_du_temps",
	"enseignants",
	"etudiants",
	"modules",
	"notifications",
	"presences",
	"seances",
	"taux_presence",
	"users_ifran",
	"volume_cours",
}

// TableReader returns every row of a table
type TableReader interface {
	SelectAll(ctx context.Context, table string) ([]map[string]any, error)
}

// Exporter dumps a fixed list of tables into one document
type Exporter struct {
	reader   TableReader
	database string
	tables   []string
	limit    int
	logger   auth.Logger
}

type ExporterOption func(*Exporter)

func WithExportLogger(logger auth.Logger) ExporterOption {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithExportConcurrency caps how many tables are read at once
func WithExportConcurrency(n int) ExporterOption {
	return func(e *Exporter) {
		e.limit = n
	}
}

func NewExporter(reader TableReader, database string, tables []string, opts ...ExporterOption) *Exporter {
	if len(tables) == 0 {
		tables = DefaultExportTables
	}
	e := &Exporter{
		reader:   reader,
		database: database,
		tables:   append([]string(nil), tables...),
		limit:    4,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = auth.ResolveLogger("records.export", nil, nil)
	}
	return e
}

// Tables returns the export order
func (e *Exporter) Tables() []string {
	return append([]string(nil), e.tables...)
}

// Export reads all tables concurrently. Any failure aborts the whole
// export, table order in the document follows the configured order.
func (e *Exporter) Export(ctx context.Context) (*ExportDocument, error) {
	dumps := make([]TableDump, len(e.tables))

	g, gctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, table := range e.tables {
		g.Go(func() error {
			rows, err := e.reader.SelectAll(gctx, table)
			if err != nil {
				e.logger.Error("Export failed to read table", "table", table, "error", err)
				return err
			}
			dumps[i] = TableDump{
				Type:     "table",
				Name:     table,
				Database: e.database,
				Data:     rows,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, auth.WrapError(auth.ErrStoreFailure, err)
	}

	return &ExportDocument{
		Type:    "header",
		Version: exportVersion,
		Comment: exportComment,
		Data:    dumps,
	}, nil
}
