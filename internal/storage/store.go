package storage

import (
	"context"
	"errors"
	"iter"

	"listkeeper/internal/model"
)

var (
	// ErrStoreUnavailable 存储尚未初始化或无法打开
	// ErrStoreUnavailable means the store is not initialized or could not be opened
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrWriteFailed 写事务中止，没有部分写入
	// ErrWriteFailed means the write transaction aborted; nothing was written
	ErrWriteFailed = errors.New("write failed")
	// ErrNotFound 记录不存在 / ErrNotFound means the record does not exist
	ErrNotFound = errors.New("list not found")
)

// Store 列表集合的持久化接口
// Store is the persistence interface over the collection of lists
type Store interface {
	// Ready 初始化成功后关闭 / Ready is closed once initialization succeeded
	Ready() <-chan struct{}

	// 列表操作 / List operations
	All(ctx context.Context) iter.Seq2[model.List, error]
	Get(ctx context.Context, id int64) (model.List, error)
	Put(ctx context.Context, list model.List) (int64, error)
	Delete(ctx context.Context, id int64) error

	// 生命周期 / Lifecycle
	Close() error
}
