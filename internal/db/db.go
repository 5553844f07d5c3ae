package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/realtyblog/internal/config"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// ErrUnsupportedDriver is returned by Open for unknown DB_DRIVER values.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open 根据配置建立数据库连接池。
// MySQL 连接不会在启动时探活，首次查询时才真正建立连接。
func Open(cfg config.DBConfig, gormLogger logger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}
	gormCfg := &gorm.Config{Logger: gormLogger, TranslateError: true}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverMySQL, "":
		gormCfg.DisableAutomaticPing = true
		return gorm.Open(gormmysql.New(gormmysql.Config{
			DSN:                       MySQLDSN(cfg),
			SkipInitializeWithVersion: true,
			DefaultStringSize:         255,
		}), gormCfg)
	case DriverSQLite:
		path := strings.TrimSpace(cfg.Path)
		if path == "" {
			path = "data/realty.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(path), gormCfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// MySQLDSN builds the go-sql-driver DSN for cfg.
func MySQLDSN(cfg config.DBConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	charset := strings.TrimSpace(cfg.Charset)
	if charset == "" {
		charset = "utf8mb4"
	}
	mc.Params = map[string]string{"charset": charset}
	return mc.FormatDSN()
}

// Models lists every table managed by AutoMigrate, parents first.
func Models() []interface{} {
	return []interface{}{
		&Category{},
		&Blog{},
		&ContactMessage{},
		&AdminUser{},
	}
}

// Migrate 自动迁移全部模型。
func Migrate(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database not initialized")
	}
	return gdb.AutoMigrate(Models()...)
}

// Describe returns the driver and database names for health reporting.
func Describe(cfg config.DBConfig) (driver, database string) {
	driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case DriverSQLite:
		return driver, filepath.Base(cfg.Path)
	default:
		return DriverMySQL, cfg.Name
	}
}

// ServerVersion asks the database server for its version string.
func ServerVersion(ctx context.Context, gdb *gorm.DB, driver string) (string, error) {
	query := "SELECT VERSION()"
	if strings.EqualFold(driver, DriverSQLite) {
		query = "SELECT sqlite_version()"
	}

	var version string
	if err := gdb.WithContext(ctx).Raw(query).Scan(&version).Error; err != nil {
		return "", err
	}
	return version, nil
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
