package relational

import (
	"fmt"
	"log"
	"net"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/clickhouse"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TypePostgreSQL = "postgresql"
	TypeMySQL      = "mysql"
	TypeClickhouse = "clickhouse"
)

type RelationalDbConfigModel struct {
	Type     string
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
}

// DSN renders the driver specific connection string
func (c RelationalDbConfigModel) DSN() (string, error) {
	switch c.Type {
	case TypePostgreSQL:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, sslMode), nil
	case TypeMySQL:
		cfg := mysqlDriver.NewConfig()
		cfg.User = c.Username
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, c.Port)
		cfg.DBName = c.Database
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN(), nil
	case TypeClickhouse:
		return fmt.Sprintf("clickhouse://%s:%s@%s/%s?dial_timeout=10s&read_timeout=20s",
			c.Username, c.Password, net.JoinHostPort(c.Host, c.Port), c.Database), nil
	default:
		return "", fmt.Errorf("unsupported relational database type: %s", c.Type)
	}
}

func dialector(c RelationalDbConfigModel) (gorm.Dialector, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	switch c.Type {
	case TypePostgreSQL:
		return postgres.Open(dsn), nil
	case TypeMySQL:
		return mysql.Open(dsn), nil
	default:
		return clickhouse.Open(dsn), nil
	}
}

// InitializeDatabaseConnection opens a gorm handle and verifies it with a ping
func InitializeDatabaseConnection(config RelationalDbConfigModel) (*gorm.DB, error) {
	d, err := dialector(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", config.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%s ping failed: %w", config.Type, err)
	}

	log.Printf("✨ Connected to %s.", config.Type)
	return db, nil
}

// Migrate creates or updates tables for the given models. ClickHouse
// tables need an engine clause.
func Migrate(db *gorm.DB, dbType string, models ...interface{}) error {
	if dbType == TypeClickhouse {
		db = db.Set("gorm:table_options", "ENGINE=MergeTree() ORDER BY (created_at)")
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
