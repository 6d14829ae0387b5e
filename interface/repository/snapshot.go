package repository

import (
	"time"
	"vault/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlMemoUpsert = `
	insert into memos as c (
			key, memo, update_time
		)
		values (
			$1, $2::jsonb, $3
		)
	on conflict (key) do
		update set
			memo = $2::jsonb, update_time = $3
`

	sqlMemoFind = `
	select
		key, memo
	from memos
	where key = $1
`
)

// SnapshotRepository keeps the latest vault snapshot in the memos table.
type SnapshotRepository struct {
	batchHandler BatchHandler
}

func NewSnapshotRepository(db BatchHandler) *SnapshotRepository {
	return &SnapshotRepository{batchHandler: db}
}

func readMemo(scan func(...interface{}) error) (interface{}, error) {
	r := domain.Memo{}
	var jstr []byte
	err := scan(
		&r.Key, &jstr,
	)
	if err != nil {
		return &r, err
	}
	r.Memo = string(jstr)
	return &r, nil
}

func (repo *SnapshotRepository) Save(snapshot *domain.VaultSnapshot) error {
	return repo.upsert(domain.SnapshotMemoKey, snapshot, snapshot.Time)
}

func (repo *SnapshotRepository) upsert(key string, memo domain.Memorable, at time.Time) error {
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlMemoUpsert,
			Args: []interface{}{
				key, memo.ToJson(), at,
			},
			Affect: 1,
		},
	})
	return err
}

// Latest returns the stored snapshot, or nil when none was saved yet.
func (repo *SnapshotRepository) Latest() (*domain.VaultSnapshot, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlMemoFind,
			Args:    []interface{}{domain.SnapshotMemoKey},
			ReadOne: readMemo,
		},
	})
	if err != nil {
		return nil, err
	}

	memo, _ := results[0].(*domain.Memo)
	if memo == nil || memo.Memo == "" {
		return nil, nil
	}

	snapshot := &domain.VaultSnapshot{}
	if err := snapshot.FromJson(memo.Memo); err != nil {
		return nil, err
	}
	return snapshot, nil
}
