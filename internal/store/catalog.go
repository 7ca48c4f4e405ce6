package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldbar/internal/model"

	_ "modernc.org/sqlite"
)

// ErrDatasetNotFound is returned by LoadSchema for names never imported.
var ErrDatasetNotFound = errors.New("dataset not found")

const catalogSchemaVersion = "1"

// Catalog is a SQLite store of dataset schemas, one field row per node of the field tree.
type Catalog struct {
	db   *sql.DB
	path string
}

// DatasetInfo summarizes one imported dataset.
type DatasetInfo struct {
	Name       string    `json:"name"`
	Fields     int       `json:"fields"`
	ImportedAt time.Time `json:"importedAt"`
}

// OpenCatalog opens (creating if needed) the catalog at path and migrates it.
func OpenCatalog(ctx context.Context, path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open catalog %s: %w", path, err)
		}
	}
	c := &Catalog{db: db, path: path}
	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate catalog %s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) Path() string { return c.path }

func (c *Catalog) Close() error { return c.db.Close() }

func (c *Catalog) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			imported_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS fields (
			dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			space TEXT NOT NULL,
			parent TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			ftype TEXT NOT NULL,
			subfield TEXT NOT NULL DEFAULT '',
			embedded_doc_type TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (dataset, space, parent, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_fields_parent ON fields(dataset, space, parent, position);`,
	}
	for _, s := range stmts {
		if _, err := c.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO meta(k, v) VALUES('schema_version', ?) ON CONFLICT(k) DO UPDATE SET v=excluded.v;`,
		catalogSchemaVersion)
	return err
}

// ImportSchema replaces everything stored for dataset with s.
func (c *Catalog) ImportSchema(ctx context.Context, dataset string, s model.Schema) (err error) {
	dataset = strings.TrimSpace(dataset)
	if dataset == "" {
		return errors.New("dataset name is empty")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?;`, dataset); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO datasets(name, imported_at_unixms) VALUES(?, ?);`,
		dataset, time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fields(
		dataset, space, parent, name, position, ftype, subfield, embedded_doc_type, description
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var insert func(space model.Space, parent string, fields []model.Field) error
	insert = func(space model.Space, parent string, fields []model.Field) error {
		for i, f := range fields {
			if _, err := stmt.ExecContext(ctx,
				dataset, string(space), parent, f.Name, i, f.FType, f.Subfield, f.EmbeddedDocType, f.Description,
			); err != nil {
				return fmt.Errorf("insert field %s: %w", joinParent(parent, f.Name), err)
			}
			if err := insert(space, joinParent(parent, f.Name), f.Fields); err != nil {
				return err
			}
		}
		return nil
	}
	if err = insert(model.SpaceSample, "", s.SampleFields); err != nil {
		return err
	}
	if err = insert(model.SpaceFrame, "", s.FrameFields); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadSchema rebuilds the field tree of dataset in stored order.
func (c *Catalog) LoadSchema(ctx context.Context, dataset string) (model.Schema, error) {
	dataset = strings.TrimSpace(dataset)
	var one int
	err := c.db.QueryRowContext(ctx, `SELECT 1 FROM datasets WHERE name = ?;`, dataset).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Schema{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, dataset)
	}
	if err != nil {
		return model.Schema{}, err
	}

	rows, err := c.db.QueryContext(ctx, `SELECT space, parent, name, ftype, subfield, embedded_doc_type, description
		FROM fields WHERE dataset = ? ORDER BY space, parent, position;`, dataset)
	if err != nil {
		return model.Schema{}, err
	}
	defer rows.Close()

	type nodeKey struct {
		space  string
		parent string
	}
	children := map[nodeKey][]model.Field{}
	for rows.Next() {
		var space, parent string
		var f model.Field
		if err := rows.Scan(&space, &parent, &f.Name, &f.FType, &f.Subfield, &f.EmbeddedDocType, &f.Description); err != nil {
			return model.Schema{}, err
		}
		k := nodeKey{space: space, parent: parent}
		children[k] = append(children[k], f)
	}
	if err := rows.Err(); err != nil {
		return model.Schema{}, err
	}

	var build func(space, parent string) []model.Field
	build = func(space, parent string) []model.Field {
		fields := children[nodeKey{space: space, parent: parent}]
		for i := range fields {
			fields[i].Fields = build(space, joinParent(parent, fields[i].Name))
		}
		return fields
	}
	return model.Schema{
		Name:         dataset,
		SampleFields: build(string(model.SpaceSample), ""),
		FrameFields:  build(string(model.SpaceFrame), ""),
	}, nil
}

// Datasets lists imported datasets by name.
func (c *Catalog) Datasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT d.name, d.imported_at_unixms, COUNT(f.name)
		FROM datasets d LEFT JOIN fields f ON f.dataset = d.name
		GROUP BY d.name ORDER BY d.name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DatasetInfo{}
	for rows.Next() {
		var d DatasetInfo
		var ms int64
		if err := rows.Scan(&d.Name, &ms, &d.Fields); err != nil {
			return nil, err
		}
		d.ImportedAt = time.UnixMilli(ms).UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDataset removes dataset and its fields. Unknown names are not an error.
func (c *Catalog) DeleteDataset(ctx context.Context, dataset string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?;`, strings.TrimSpace(dataset))
	return err
}

func joinParent(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
