// Package report stores detection runs in a local SQLite file so they can
// be browsed later. The detector never reads it back.
package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soyunomas/folderly/internal/engine"
)

// ErrRunNotFound is returned by Get for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived detection.
type Run struct {
	ID        string         `json:"id" yaml:"id"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	Root      string         `json:"root" yaml:"root"`
	Mode      string         `json:"mode" yaml:"mode"`
	Algorithm string         `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Summary   engine.Summary `json:"summary" yaml:"summary"`
	Groups    []Group        `json:"groups,omitempty" yaml:"groups,omitempty"`
}

type Group struct {
	Key     string   `json:"key" yaml:"key"`
	Members []Member `json:"members" yaml:"members"`
}

type Member struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// NewRun captures a detection result for saving.
func NewRun(res engine.Result) Run {
	run := Run{
		CreatedAt: time.Now().UTC(),
		Root:      res.Root,
		Mode:      res.Mode.String(),
		Algorithm: res.Algorithm,
		Summary:   res.Summary,
	}
	for _, g := range res.Groups {
		out := Group{Key: g.Key.String(), Members: make([]Member, len(g.Files))}
		for i, f := range g.Files {
			out.Members[i] = Member{Path: f.Path, Size: f.Size()}
		}
		run.Groups = append(run.Groups, out)
	}
	return run
}

type Archive struct {
	db   *sql.DB
	path string
}

// Open creates the file and its schema when missing.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}
	return &Archive{db: db, path: path}, nil
}

func (a *Archive) Path() string { return a.path }

func (a *Archive) Close() error { return a.db.Close() }

// Save stores run under a fresh id and returns it.
func (a *Archive) Save(ctx context.Context, run Run) (string, error) {
	id := uuid.NewString()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, root, mode, algorithm,
			groups_count, files_count, redundant_count, reclaimable_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.CreatedAt.UTC(), run.Root, run.Mode, run.Algorithm,
		run.Summary.Groups, run.Summary.Files, run.Summary.Redundant, run.Summary.ReclaimableSize,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO group_members (run_id, group_index, group_key, position, path, size)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for gi, g := range run.Groups {
		for pos, m := range g.Members {
			if _, err := stmt.ExecContext(ctx, id, gi, g.Key, pos, m.Path, m.Size); err != nil {
				return "", fmt.Errorf("failed to insert group member: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

const runColumns = `id, created_at, root, mode, algorithm,
	groups_count, files_count, redundant_count, reclaimable_bytes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.CreatedAt, &r.Root, &r.Mode, &r.Algorithm,
		&r.Summary.Groups, &r.Summary.Files, &r.Summary.Redundant, &r.Summary.ReclaimableSize)
	return r, err
}

// List returns every run, newest first, without group members.
func (a *Archive) List(ctx context.Context) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run with its groups.
func (a *Archive) Get(ctx context.Context, id string) (Run, error) {
	run, err := scanRun(a.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT group_index, group_key, path, size FROM group_members
		WHERE run_id = ? ORDER BY group_index, position`, id)
	if err != nil {
		return Run{}, err
	}
	defer rows.Close()

	last := -1
	for rows.Next() {
		var (
			gi  int
			key string
			m   Member
		)
		if err := rows.Scan(&gi, &key, &m.Path, &m.Size); err != nil {
			return Run{}, err
		}
		if gi != last {
			run.Groups = append(run.Groups, Group{Key: key})
			last = gi
		}
		g := &run.Groups[len(run.Groups)-1]
		g.Members = append(g.Members, m)
	}
	return run, rows.Err()
}

// Delete removes a run and its members.
func (a *Archive) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return nil
}
