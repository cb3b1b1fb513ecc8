package session

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mangareader/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mangareader/internal/dbx"
)

// Storage keys, named after the browser local-storage keys of the web client.
const (
	KeyCredential = "token"
	KeyProfile    = "user"
)

// Storage is the durable side of the store. Load returns nil slices for
// absent keys.
type Storage interface {
	Load(ctx context.Context) (credential, profile []byte, err error)
	Save(ctx context.Context, credential, profile []byte) error
	Remove(ctx context.Context) error
}

// SQLStorage keeps both keys in the metadata table and writes them in one
// transaction.
type SQLStorage struct {
	db *sql.DB
}

func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

func (s *SQLStorage) Load(ctx context.Context) ([]byte, []byte, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	credential, err := repo.Get(ctx, KeyCredential)
	if err != nil {
		return nil, nil, err
	}
	profile, err := repo.Get(ctx, KeyProfile)
	if err != nil {
		return nil, nil, err
	}
	return credential, profile, nil
}

func (s *SQLStorage) Save(ctx context.Context, credential, profile []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyCredential, credential); err != nil {
			return err
		}
		return repo.Set(ctx, KeyProfile, profile)
	})
}

func (s *SQLStorage) Remove(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, KeyCredential, KeyProfile)
	})
}
