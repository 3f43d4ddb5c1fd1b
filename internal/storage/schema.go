package storage

import (
	"context"
	"database/sql"
	"fmt"

	"listkeeper/internal/model"
)

// SchemaVersion 当前集合版本 / SchemaVersion is the current collection version
const SchemaVersion = 1

// 示例列表，仅在首次创建集合时写入 / Sample list written only when the collection is first created
var (
	SampleListTitle = "Sample To Do List"
	SampleItems     = []string{"Paint Rainbows", "Feed the Unicorns", "Be Awesome"}
)

type migration struct {
	version int
	up      func(ctx context.Context, tx *sql.Tx, opts Options) error
}

var migrations = []migration{
	{version: 1, up: createCollection},
}

// migrateSchema 按 user_version 逐级升级，每一级一个事务
// migrateSchema upgrades by PRAGMA user_version, one transaction per step
func migrateSchema(ctx context.Context, db *sql.DB, opts Options) (int, error) {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	if current > SchemaVersion {
		return current, fmt.Errorf("database schema v%d is newer than supported v%d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return current, fmt.Errorf("begin tx: %w", err)
		}
		if err := m.up(ctx, tx, opts); err != nil {
			_ = tx.Rollback()
			return current, fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			_ = tx.Rollback()
			return current, fmt.Errorf("set user_version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return current, fmt.Errorf("commit v%d: %w", m.version, err)
		}
		opts.Logger.Printf("migrated %s collection to v%d", CollectionName, m.version)
		current = m.version
	}
	return current, nil
}

func createCollection(ctx context.Context, tx *sql.Tx, opts Options) error {
	schema := `
	CREATE TABLE IF NOT EXISTS todo (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		title    TEXT    NOT NULL,
		created  INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		items    TEXT    NOT NULL DEFAULT '[]'
	);

	CREATE INDEX IF NOT EXISTS idx_todo_title ON todo(title);
	`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	if opts.SkipSeed {
		return nil
	}

	sample := model.NewList(SampleListTitle, opts.Now())
	for _, content := range SampleItems {
		model.AddItem(sample, model.NewItem(content))
	}
	items, err := encodeItems(sample.Items)
	if err != nil {
		return fmt.Errorf("encode sample items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO todo (title, created, modified, items) VALUES (?, ?, ?, ?)`,
		sample.Title, sample.Created.UnixMilli(), sample.Modified.UnixMilli(), items); err != nil {
		return fmt.Errorf("seed sample list: %w", err)
	}
	opts.Logger.Printf("seeded %q", sample.Title)
	return nil
}
