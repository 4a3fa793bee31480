package repository

import (
	"context"
	"database/sql"
	"errors"
	"reflect"

	"skill-bridge/internal/database"
)

type fakeDB struct {
	rows     [][]any
	queryErr error

	execErrAt int
	execErr   error
	noRows    bool
	execs     []string
	execArgs  [][]any
	committed bool
	rolled    bool
	lastArgs  []any
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) SQLDB() *sql.DB             { return nil }

func (f *fakeDB) Exec(_ context.Context, q string, args ...any) (int64, error) {
	f.execs = append(f.execs, q)
	f.execArgs = append(f.execArgs, args)
	if f.noRows {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeDB) Query(_ context.Context, _ string, args ...any) (database.Rows, error) {
	f.lastArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{data: f.rows, i: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) database.Row {
	if len(f.rows) == 0 {
		return fakeRow{err: sql.ErrNoRows}
	}
	return fakeRow{vals: f.rows[0]}
}

func (f *fakeDB) Begin(context.Context) (database.Tx, error) {
	return &fakeTx{db: f}, nil
}

type fakeTx struct {
	db   *fakeDB
	done bool
}

func (t *fakeTx) Exec(_ context.Context, q string, args ...any) (int64, error) {
	t.db.execs = append(t.db.execs, q)
	t.db.execArgs = append(t.db.execArgs, args)
	if t.db.execErrAt > 0 && len(t.db.execs) == t.db.execErrAt {
		if t.db.execErr != nil {
			return 0, t.db.execErr
		}
		return 0, errors.New("exec failed")
	}
	return 1, nil
}

func (t *fakeTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.db.QueryRow(ctx, q, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.done = true
	t.db.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.rolled = true
	return nil
}

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.i++
	return r.i < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.data[r.i], dest)
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(vals[i])
		if target.Kind() == reflect.Pointer && v.Kind() != reflect.Pointer {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			v = p
		}
		target.Set(v)
	}
	return nil
}
