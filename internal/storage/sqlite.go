package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"listkeeper/internal/model"

	_ "modernc.org/sqlite"
)

// CollectionName 列表集合（表）名 / CollectionName is the table holding lists
const CollectionName = "todo"

// Options 配置 SQLiteStore / Options configures a SQLiteStore
type Options struct {
	// BusyTimeout 写锁等待时长 / how long a writer waits for the lock
	BusyTimeout time.Duration
	// SkipSeed 首次创建时不写入示例列表 / do not seed the sample list on first creation
	SkipSeed bool
	// Now 用于示例数据的时间戳 / clock used for seeded timestamps
	Now    func() time.Time
	Logger *log.Logger
}

// SQLiteStore 基于 SQLite (WAL 模式) 的列表存储，连接在 Initialize 成功后才可用
// SQLiteStore stores lists in SQLite (WAL mode); the connection is only set once Initialize succeeds
type SQLiteStore struct {
	path string
	opts Options

	mu     sync.RWMutex
	db     *sql.DB
	ready  chan struct{}
	closed bool
}

// NewSQLiteStore 创建未初始化的存储 / NewSQLiteStore creates an uninitialized store
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &SQLiteStore{
		path:  dbPath,
		opts:  opts,
		ready: make(chan struct{}),
	}, nil
}

// OpenSQLite 创建并初始化存储 / OpenSQLite creates and initializes a store
func OpenSQLite(ctx context.Context, dbPath string, opts Options) (*SQLiteStore, error) {
	store, err := NewSQLiteStore(dbPath, opts)
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Ready 初始化成功后关闭的通道 / Ready returns a channel closed after Initialize succeeds
func (s *SQLiteStore) Ready() <-chan struct{} { return s.ready }

// Initialize 打开（必要时创建）数据库并执行版本迁移；失败时连接保持未设置，可重试
// Initialize opens (creating if absent) the database and runs versioned migrations.
// On failure the connection stays unset and the call may be retried.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: store is closed", ErrStoreUnavailable)
	}
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create db directory: %w", ErrStoreUnavailable, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: open sqlite: %w", ErrStoreUnavailable, err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", s.opts.BusyTimeout.Milliseconds()),
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return fmt.Errorf("%w: exec %q: %w", ErrStoreUnavailable, p, err)
		}
	}

	version, err := migrateSchema(ctx, db, s.opts)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: migrate schema: %w", ErrStoreUnavailable, err)
	}

	s.db = db
	close(s.ready)
	s.opts.Logger.Printf("store ready at %s (schema v%d)", s.path, version)
	return nil
}

// Close 关闭数据库连接 / Close the database connection
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, fmt.Errorf("%w: store is not initialized", ErrStoreUnavailable)
	}
	return s.db, nil
}

// --- List Operations ---

// All 按主键顺序惰性遍历全部列表；每次调用打开新游标
// All lazily yields every list in key order; each call opens a new cursor
func (s *SQLiteStore) All(ctx context.Context) iter.Seq2[model.List, error] {
	return func(yield func(model.List, error) bool) {
		db, err := s.conn()
		if err != nil {
			yield(model.List{}, err)
			return
		}
		rows, err := db.QueryContext(ctx, `
			SELECT id, title, created, modified, items FROM todo ORDER BY id`)
		if err != nil {
			yield(model.List{}, fmt.Errorf("query lists: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			list, err := scanList(rows)
			if err != nil {
				yield(model.List{}, err)
				return
			}
			if !yield(list, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.List{}, fmt.Errorf("iterate lists: %w", err))
		}
	}
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (model.List, error) {
	db, err := s.conn()
	if err != nil {
		return model.List{}, err
	}
	row := db.QueryRowContext(ctx, `
		SELECT id, title, created, modified, items FROM todo WHERE id=?`, id)
	list, err := scanList(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.List{}, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return model.List{}, err
	}
	return list, nil
}

// FindByTitle 通过 title 索引查找（非唯一）/ FindByTitle looks lists up through the non-unique title index
func (s *SQLiteStore) FindByTitle(ctx context.Context, title string) ([]model.List, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, created, modified, items FROM todo INDEXED BY idx_todo_title
		WHERE title=? ORDER BY id`, title)
	if err != nil {
		return nil, fmt.Errorf("query lists by title: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// Put 无 id 时插入，否则按 id 更新（不存在则以该 id 插入）；返回 id
// Put inserts when the list has no id, otherwise upserts by id. It returns the id.
func (s *SQLiteStore) Put(ctx context.Context, list model.List) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	if list.ID < 0 {
		return 0, fmt.Errorf("%w: invalid list id %d", ErrWriteFailed, list.ID)
	}
	items, err := encodeItems(list.Items)
	if err != nil {
		return 0, fmt.Errorf("%w: encode items: %w", ErrWriteFailed, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx: %w", ErrWriteFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	id := list.ID
	if id == 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO todo (title, created, modified, items) VALUES (?, ?, ?, ?)`,
			list.Title, list.Created.UnixMilli(), list.Modified.UnixMilli(), items)
		if err != nil {
			return 0, fmt.Errorf("%w: insert list: %w", ErrWriteFailed, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("%w: read generated id: %w", ErrWriteFailed, err)
		}
	} else {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO todo (id, title, created, modified, items) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title=excluded.title, created=excluded.created,
				modified=excluded.modified, items=excluded.items`,
			id, list.Title, list.Created.UnixMilli(), list.Modified.UnixMilli(), items)
		if err != nil {
			return 0, fmt.Errorf("%w: update list %d: %w", ErrWriteFailed, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrWriteFailed, err)
	}
	return id, nil
}

// Delete 删除记录；id 不存在时不报错 / Delete removes the record; a missing id is not an error
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM todo WHERE id=?", id); err != nil {
		return fmt.Errorf("%w: delete list %d: %w", ErrWriteFailed, id, err)
	}
	return nil
}

// --- Helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner) (model.List, error) {
	var (
		list              model.List
		created, modified int64
		items             string
	)
	if err := row.Scan(&list.ID, &list.Title, &created, &modified, &items); err != nil {
		if err == sql.ErrNoRows {
			return model.List{}, err
		}
		return model.List{}, fmt.Errorf("scan list: %w", err)
	}
	list.Created = time.UnixMilli(created)
	list.Modified = time.UnixMilli(modified)
	list.Items = []model.Item{}
	if items != "" {
		if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
			return model.List{}, fmt.Errorf("decode items of list %d: %w", list.ID, err)
		}
	}
	return list, nil
}

func encodeItems(items []model.Item) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
