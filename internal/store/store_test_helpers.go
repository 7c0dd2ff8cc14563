package store

import (
	"context"
	"database/sql"
)

// fakeResult satisfies sql.Result for exec assertions; rows carries the
// affected count the store under test should report.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, r.err }

func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

// fakeDB implements the DB interface with per-call hooks. Nil hooks
// succeed with empty results so tests only wire what they assert on.
type fakeDB struct {
	getFn    func(ctx context.Context, dest any, query string, args ...any) error
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
	execFn   func(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (f fakeDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.getFn == nil {
		return nil
	}
	return f.getFn(ctx, dest, query, args...)
}

func (f fakeDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.selectFn == nil {
		return nil
	}
	return f.selectFn(ctx, dest, query, args...)
}

func (f fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.execFn == nil {
		return fakeResult{rows: 1}, nil
	}
	return f.execFn(ctx, query, args...)
}

type fakeExecer struct {
	execFn func(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (f fakeExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.execFn == nil {
		return fakeResult{rows: 1}, nil
	}
	return f.execFn(ctx, query, args...)
}

type fakeGetter struct {
	getFn func(ctx context.Context, dest any, query string, args ...any) error
}

func (f fakeGetter) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.getFn == nil {
		return nil
	}
	return f.getFn(ctx, dest, query, args...)
}

// fakeTx doubles as Execer and Getter for stores that read and write
// inside one transaction.
type fakeTx struct {
	execFn func(ctx context.Context, query string, args ...any) (sql.Result, error)
	getFn  func(ctx context.Context, dest any, query string, args ...any) error
}

func (f fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.execFn == nil {
		return fakeResult{rows: 1}, nil
	}
	return f.execFn(ctx, query, args...)
}

func (f fakeTx) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.getFn == nil {
		return nil
	}
	return f.getFn(ctx, dest, query, args...)
}
