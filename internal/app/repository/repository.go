package repository

import (
	"errors"
	"fmt"
	"time"

	"paytrack/internal/app/ds"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrHasReferences = errors.New("record is still referenced")
	// платёж нельзя перенести на другую задолженность
	ErrPaymentMovesPayable = errors.New("payment cannot be moved to another payable")
)

type Repository struct {
	db *gorm.DB
}

// Models - все таблицы схемы в порядке миграции
func Models() []interface{} {
	return []interface{}{
		&ds.User{},
		&ds.Supplier{},
		&ds.Bank{},
		&ds.BankAccount{},
		&ds.Contract{},
		&ds.PayableManagement{},
		&ds.PaymentRecord{},
		&ds.Attachment{},
		&ds.CurrencyRate{},
	}
}

// Open подключается к Postgres, SQL логируется через logrus
func Open(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             300 * time.Millisecond,
		LogLevel:                  gormLogLevel(),
		IgnoreRecordNotFoundError: true,
	})

	return gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
}

func New(dsn string) (*Repository, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(Models()...)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func gormLogLevel() logger.LogLevel {
	switch logrus.GetLevel() {
	case logrus.TraceLevel, logrus.DebugLevel:
		return logger.Info
	case logrus.InfoLevel, logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

// notFound переводит ошибку gorm в ErrNotFound
func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return err
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := tx.Model(model).Where(query, args...).Count(&count).Error
	return count > 0, err
}
