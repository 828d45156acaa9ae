package store

import (
	"database/sql"
	"os"
	"strings"

	"github.com/pkg/errors"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// IsRemoteDSN reports whether dsn addresses a remote libSQL/Turso database
// rather than a local file path.
func IsRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "libsql://") ||
		strings.HasPrefix(dsn, "http://") ||
		strings.HasPrefix(dsn, "https://")
}

// OpenRemote connects to a shared libSQL/Turso database so a team can
// index against one fingerprint cache across machines. The auth token, if
// required by the server, is read from AL_CHUNKER_LIBSQL_AUTH_TOKEN.
func OpenRemote(dsn string, debug bool) (*Cache, error) {
	token := os.Getenv("AL_CHUNKER_LIBSQL_AUTH_TOKEN")

	var (
		conn *sql.DB
		err  error
	)
	if token != "" {
		c, cerr := libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		if cerr != nil {
			return nil, errors.Wrapf(cerr, "store: connect remote cache %s", dsn)
		}
		conn = sql.OpenDB(c)
	} else {
		c, cerr := libsql.NewConnector(dsn)
		if cerr != nil {
			return nil, errors.Wrapf(cerr, "store: connect remote cache %s", dsn)
		}
		conn = sql.OpenDB(c)
	}

	dialector := gormsqlite.New(gormsqlite.Config{
		DriverName: "libsql",
		Conn:       conn,
		DSN:        dsn,
	})

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "store: open remote cache %s", dsn)
	}

	return newCache(db)
}
