package callRepository

import (
	"time"

	"ProjectRiya/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Calls:    &callRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Calls interface {
		CreateCall(ctx context.Context, record entity.CallRecord) error
		GetCallByID(ctx context.Context, id string) (entity.CallRecord, error)
		GetCalls(ctx context.Context, limit, offset int) ([]entity.CallRecord, int, error)
		UpdateCallStatus(ctx context.Context, id string, status entity.CallStatus, endedAt *time.Time) error
		UpdateCallArtifacts(ctx context.Context, record entity.CallRecord) error
		DeleteCall(ctx context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type callRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
