// Package accounting counts syscalls per task.
package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/stride/internal/exclusive"
	"github.com/viant/stride/service/dao"
	"github.com/viant/stride/service/dao/store"
)

// MaxSyscallNum bounds the syscall numbers that are counted.
const MaxSyscallNum = 500

// Counts holds one counter per syscall number.
type Counts [MaxSyscallNum]uint32

// Record is the accounting entry of one task.
type Record struct {
	TaskID int
	Counts Counts
}

// Table maps task ids to records.
type Table struct {
	records *exclusive.Cell[store.MemoryStore[int, Record]]
}

// New creates an empty table.
func New() *Table {
	records := store.NewMemoryStore[int, Record](func(r *Record) int { return r.TaskID })
	return &Table{records: exclusive.New("accounting table", records)}
}

// Register creates a zeroed record for id, replacing any previous one.
func (t *Table) Register(ctx context.Context, id int) {
	t.records.With(func(s *store.MemoryStore[int, Record]) {
		_ = s.Save(ctx, &Record{TaskID: id})
	})
}

// Increment counts one invocation of num by id. Numbers at or above
// MaxSyscallNum are ignored. A missing record means the task was never
// registered, which is a kernel bug, so it panics.
func (t *Table) Increment(ctx context.Context, id int, num uint64) {
	t.records.With(func(s *store.MemoryStore[int, Record]) {
		record, err := s.Load(ctx, id)
		if err != nil {
			panic(fmt.Sprintf("accounting: task %d: %v", id, err))
		}
		if num < MaxSyscallNum {
			record.Counts[num]++
		}
	})
}

// Counts returns a copy of the counters of id.
func (t *Table) Counts(ctx context.Context, id int) (Counts, error) {
	var counts Counts
	var err error
	t.records.With(func(s *store.MemoryStore[int, Record]) {
		var record *Record
		if record, err = s.Load(ctx, id); err == nil {
			counts = record.Counts
		}
	})
	if err != nil {
		return counts, fmt.Errorf("accounting counts: %w", err)
	}
	return counts, nil
}

// Remove drops the record of id.
func (t *Table) Remove(ctx context.Context, id int) {
	t.records.With(func(s *store.MemoryStore[int, Record]) {
		_ = s.Delete(ctx, id)
	})
}

// Registered reports whether id has a record.
func (t *Table) Registered(ctx context.Context, id int) bool {
	_, err := t.Counts(ctx, id)
	return !errors.Is(err, dao.ErrNotFound)
}
