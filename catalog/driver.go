package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gopsql/db"
	"github.com/gopsql/pgx"
	"github.com/gopsql/standard"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// Driver names a database the catalog can be read from.
type Driver string

const (
	PostgreSQL Driver = "postgresql"
	MySQL      Driver = "mysql"
	SQLite     Driver = "sqlite"
	DuckDB     Driver = "duckdb"
)

// Opener connects to a database given a driver specific connection string.
type Opener func(connectionString string) (db.DB, error)

var (
	ErrEmptyConnectionString = errors.New("connection string must not be empty")

	registryMu sync.RWMutex
	registry   = map[Driver]Opener{
		PostgreSQL: openPostgreSQL,
		MySQL:      openStandard("mysql"),
		SQLite:     openStandard("sqlite"),
		DuckDB:     openStandard("duckdb"),
	}

	aliases = map[string]Driver{
		"postgres": PostgreSQL,
		"pg":       PostgreSQL,
		"pgsql":    PostgreSQL,
		"mariadb":  MySQL,
		"sqlite3":  SQLite,
		"duck":     DuckDB,
	}
)

// UnsupportedDriverError is returned for a driver that has no registered
// opener or catalog query.
type UnsupportedDriverError struct {
	Driver    string
	Available []Driver
}

func (e *UnsupportedDriverError) Error() string {
	return fmt.Sprintf("unsupported database driver %q (available: %s)", e.Driver, joinDrivers(e.Available))
}

// Register adds or replaces the opener of a driver.
func Register(driver Driver, opener Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[driver] = opener
}

// Drivers returns the registered drivers, sorted.
func Drivers() []Driver {
	registryMu.RLock()
	defer registryMu.RUnlock()
	drivers := make([]Driver, 0, len(registry))
	for driver := range registry {
		drivers = append(drivers, driver)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i] < drivers[j] })
	return drivers
}

// ParseDriver returns the driver for a name such as "postgresql",
// "Postgres" or "pg". Names are case-insensitive.
func ParseDriver(name string) (Driver, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if driver, ok := aliases[key]; ok {
		return driver, nil
	}
	driver := Driver(key)
	registryMu.RLock()
	_, ok := registry[driver]
	registryMu.RUnlock()
	if !ok {
		return "", &UnsupportedDriverError{Driver: name, Available: Drivers()}
	}
	return driver, nil
}

// Open connects to the database of the driver.
func Open(driver Driver, connectionString string) (db.DB, error) {
	if connectionString == "" {
		return nil, ErrEmptyConnectionString
	}
	registryMu.RLock()
	opener, ok := registry[driver]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnsupportedDriverError{Driver: string(driver), Available: Drivers()}
	}
	conn, err := opener(connectionString)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return conn, nil
}

func openPostgreSQL(connectionString string) (db.DB, error) {
	conn, err := pgx.Open(connectionString)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func openStandard(driverName string) Opener {
	return func(connectionString string) (db.DB, error) {
		c, err := sql.Open(driverName, connectionString)
		if err != nil {
			return nil, err
		}
		return standard.NewDB(driverName, c), nil
	}
}

func joinDrivers(drivers []Driver) string {
	names := make([]string, len(drivers))
	for i, driver := range drivers {
		names[i] = string(driver)
	}
	return strings.Join(names, ", ")
}
