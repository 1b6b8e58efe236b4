package cli

import (
	"errors"
	"time"

	"github.com/roach88/kata/internal/store"
)

var errNoDatabase = errors.New("no database: pass --db or set " + EnvDatabase)

func openStore(path string, ids store.IDGenerator, now func() time.Time) (*store.Store, error) {
	if path == "" {
		return nil, errNoDatabase
	}
	return store.Open(path, store.WithIDGenerator(ids), store.WithNow(now))
}
