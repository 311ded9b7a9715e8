package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ncss/coffeerun/internal/config"
	"github.com/ncss/coffeerun/internal/repository/dao"
)

const sqliteParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	return OpenPostgresWithURL(conf.DSN())
}

func OpenPostgresWithURL(url string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	return db, nil
}

// OpenSQLite opens a file backed database with foreign keys enforced. It is
// meant for local development and tests.
func OpenSQLite(path string, silent bool) (*gorm.DB, error) {
	gormConf := &gorm.Config{TranslateError: true}
	if silent {
		gormConf.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path+sqliteParams), gormConf)
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	// SQLite works best with a single writer.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	return db, nil
}

// Open picks the driver named in conf. DATABASE_URL, when set, wins over the
// postgres section.
func Open(conf *config.AppConfig, databaseURL string) (*gorm.DB, error) {
	switch conf.Database.Driver {
	case "sqlite":
		return OpenSQLite(conf.SQLite.Path, false)
	case "postgres", "":
		if databaseURL != "" {
			return OpenPostgresWithURL(databaseURL)
		}
		return OpenPostgres(conf.Postgres)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
	}
}
