package configs

import "fmt"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Store selects the persistence backend. SQLite is meant for single node
// and local runs; it serialises all writes through one connection.
type Store struct {
	Driver     string `env:"DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/campaigns.db"`
}

func (c Store) Validate() error {
	switch c.Driver {
	case StoreDriverPostgres, StoreDriverSQLite:
		return nil
	}
	return fmt.Errorf("unknown store driver %q", c.Driver)
}
