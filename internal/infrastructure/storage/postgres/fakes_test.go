package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		if i >= len(r.values) {
			break
		}
		if p, ok := dest[i].(*int64); ok {
			*p = r.values[i].(int64)
		}
	}
	return nil
}

// fakeTx implements the pgx.Tx methods the manager uses; the embedded
// interface panics on anything else.
type fakeTx struct {
	pgx.Tx

	name       string
	execs      []execCall
	committed  bool
	rolledBack bool
	children   []*fakeTx

	batched  []execCall
	batchTag []pgconn.CommandTag
	batchErr error
}

func (t *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	for _, q := range b.QueuedQueries {
		t.batched = append(t.batched, execCall{sql: q.SQL, args: q.Arguments})
	}
	return &fakeBatchResults{tags: t.batchTag, err: t.batchErr}
}

// fakeBatchResults hands out tags in order, then err once they run out.
type fakeBatchResults struct {
	pgx.BatchResults

	tags   []pgconn.CommandTag
	err    error
	closed bool
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if len(r.tags) == 0 {
		return pgconn.CommandTag{}, r.err
	}
	tag := r.tags[0]
	r.tags = r.tags[1:]
	return tag, nil
}

func (r *fakeBatchResults) Close() error {
	r.closed = true
	return nil
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("OK"), nil
}

func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{values: []any{int64(7)}}
}

func (t *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	child := &fakeTx{name: t.name + "/sp"}
	t.children = append(t.children, child)
	return child, nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

// fakeDB stands in for *pgxpool.Pool.
type fakeDB struct {
	begun   []pgx.TxOptions
	txs     []*fakeTx
	execs   []execCall
	execErr error
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.execs = append(d.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), d.execErr
}

func (d *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (d *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{values: []any{int64(1)}}
}

func (d *fakeDB) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	d.begun = append(d.begun, opts)
	t := &fakeTx{name: "tx"}
	d.txs = append(d.txs, t)
	return t, nil
}

func (d *fakeDB) GetQuerier(context.Context) Querier {
	return d
}
