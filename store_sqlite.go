package fanfield

import (
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS links (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	from_id     TEXT NOT NULL,
	from_name   TEXT NOT NULL DEFAULT '',
	from_lat    REAL NOT NULL,
	from_lng    REAL NOT NULL,
	to_id       TEXT NOT NULL,
	to_name     TEXT NOT NULL DEFAULT '',
	to_lat      REAL NOT NULL,
	to_lng      REAL NOT NULL,
	throw_order INTEGER NOT NULL DEFAULT 0,
	kind        TEXT NOT NULL DEFAULT 'other',
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS selection (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteStore persists links and selections in a SQLite file.
// A batch is a single SQL transaction
type SQLiteStore struct {
	db *sql.DB

	mu sync.Mutex
	tx *sql.Tx
}

// OpenSQLiteStore opens (and creates when needed) database file
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open database")
	}
	// one physical connection: an open batch blocks other writers until it ends
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	_, err = db.Exec(sqliteSchema)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Can't prepare schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases database
func (store *SQLiteStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx != nil {
		_ = store.tx.Rollback()
		store.tx = nil
	}
	return store.db.Close()
}

func (store *SQLiteStore) BeginBatch() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx != nil {
		return ErrBatchOpen
	}
	tx, err := store.db.Begin()
	if err != nil {
		return errors.Wrap(err, "Can't begin transaction")
	}
	store.tx = tx
	return nil
}

const insertLinkSQL = `INSERT INTO links (from_id, from_name, from_lat, from_lng, to_id, to_name, to_lat, to_lng, throw_order, kind, description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (store *SQLiteStore) AddLink(link Link) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	args := []interface{}{
		link.From.ID, link.From.Name, link.From.Lat(), link.From.Lng(),
		link.To.ID, link.To.Name, link.To.Lat(), link.To.Lng(),
		link.Order, link.Kind.String(), link.Description,
	}
	var err error
	if store.tx != nil {
		_, err = store.tx.Exec(insertLinkSQL, args...)
	} else {
		_, err = store.db.Exec(insertLinkSQL, args...)
	}
	if err != nil {
		return errors.Wrap(err, "Can't insert link")
	}
	return nil
}

func (store *SQLiteStore) EndBatch() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx == nil {
		return ErrNoBatch
	}
	err := store.tx.Commit()
	store.tx = nil
	if err != nil {
		return errors.Wrap(err, "Can't commit transaction")
	}
	return nil
}

// AbortBatch rolls back links added since BeginBatch
func (store *SQLiteStore) AbortBatch() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx == nil {
		return ErrNoBatch
	}
	err := store.tx.Rollback()
	store.tx = nil
	if err != nil {
		return errors.Wrap(err, "Can't rollback transaction")
	}
	return nil
}

func (store *SQLiteStore) ExistingLinks() ([]Link, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx != nil {
		return nil, errors.Wrap(ErrBatchOpen, "Can't read links while batch is open")
	}
	rows, err := store.db.Query(`SELECT from_id, from_name, from_lat, from_lng, to_id, to_name, to_lat, to_lng, throw_order, kind, description FROM links ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "Can't query links")
	}
	defer rows.Close()
	links := []Link{}
	for rows.Next() {
		var (
			fromID, fromName, toID, toName, kind, description string
			fromLat, fromLng, toLat, toLng                    float64
			order                                             int
		)
		err = rows.Scan(&fromID, &fromName, &fromLat, &fromLng, &toID, &toName, &toLat, &toLng, &order, &kind, &description)
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan link")
		}
		linkKind, err := ParseLinkKind(kind)
		if err != nil {
			return nil, errors.Wrap(err, "Bad link kind in database")
		}
		links = append(links, Link{
			From:        NewLocation(fromID, fromName, fromLat, fromLng),
			To:          NewLocation(toID, toName, toLat, toLng),
			Order:       order,
			Kind:        linkKind,
			Description: description,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "Can't iterate links")
	}
	return links, nil
}

func (store *SQLiteStore) ClearLinks() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx != nil {
		return errors.Wrap(ErrBatchOpen, "Can't clear links while batch is open")
	}
	_, err := store.db.Exec(`DELETE FROM links`)
	if err != nil {
		return errors.Wrap(err, "Can't delete links")
	}
	return nil
}

func (store *SQLiteStore) LoadSelection(key string) (*Location, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx != nil {
		return nil, errors.Wrap(ErrBatchOpen, "Can't read selection while batch is open")
	}
	var raw string
	err := store.db.QueryRow(`SELECT value FROM selection WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Can't query selection '%s'", key)
	}
	return decodeSelection([]byte(raw))
}

func (store *SQLiteStore) SaveSelection(key string, loc Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return errors.Wrap(err, "Can't encode location")
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.tx != nil {
		return errors.Wrap(ErrBatchOpen, "Can't save selection while batch is open")
	}
	_, err = store.db.Exec(`INSERT INTO selection (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(raw))
	if err != nil {
		return errors.Wrap(err, "Can't save selection")
	}
	return nil
}
