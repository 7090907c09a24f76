package store

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("record not found")

type Storage struct {
	Checkpoints interface {
		GetLastSyncAt(ctx context.Context, source string) (*time.Time, error)
		SetLastSyncAt(ctx context.Context, source string, t time.Time) error
		List(ctx context.Context) ([]SyncCheckpoint, error)
	}

	Categories interface {
		Upsert(ctx context.Context, categories []Category) error
		GetAll(ctx context.Context) ([]Category, error)
	}

	Parties interface {
		Upsert(ctx context.Context, parties []Party) error
		FindByDocument(ctx context.Context, cpfOrCnpj string) ([]Party, error)
		GetByCodes(ctx context.Context, codes []int64) ([]Party, error)
	}

	Projects interface {
		Upsert(ctx context.Context, projects []Project) error
		GetByInternalCodes(ctx context.Context, codes []int64) ([]Project, error)
		GetAll(ctx context.Context) ([]Project, error)
	}

	Payables interface {
		Upsert(ctx context.Context, payables []Payable) error
	}

	Movements interface {
		Upsert(ctx context.Context, movements []Movement) error
		ProjectCodesForClients(ctx context.Context, clientCodes []int64) ([]int64, error)
		GetByProjectCodes(ctx context.Context, projectCodes []int64) ([]Movement, error)
	}

	Operations interface {
		Upsert(ctx context.Context, operations []Operation) error
		GetByID(ctx context.Context, id int64) (*Operation, error)
		GetAll(ctx context.Context) ([]Operation, error)
		GetByNames(ctx context.Context, names []string) ([]Operation, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Checkpoints: &CheckpointStore{db: db},
		Categories:  &CategoryStore{db: db},
		Parties:     &PartyStore{db: db},
		Projects:    &ProjectStore{db: db},
		Payables:    &PayableStore{db: db},
		Movements:   &MovementStore{db: db},
		Operations:  &OperationStore{db: db},
	}
}

// chunk splits a batch into upsert-sized slices. Multi-row statements stay
// well under Postgres's bind-parameter limit this way.
func chunk[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = 500
	}
	var out [][]T
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}
