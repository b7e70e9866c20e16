package store

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	solwatch "github.com/solpaylabs/solwatch/pkg"

	_ "github.com/mattn/go-sqlite3"
)

var SETUP_SQL string = `
CREATE TABLE IF NOT EXISTS link (
	id TEXT NOT NULL PRIMARY KEY,
	nickname TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	account_id TEXT NOT NULL DEFAULT '',
	link TEXT NOT NULL DEFAULT '',
	reference TEXT NOT NULL,
	recipient TEXT NOT NULL,
	network TEXT NOT NULL,
	expected_amount TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	amount_received TEXT NOT NULL DEFAULT '0',
	expiration INTEGER NOT NULL DEFAULT 0,
	expired BOOLEAN NOT NULL DEFAULT FALSE,
	received_at DATETIME
);

CREATE INDEX IF NOT EXISTS link_status_i ON link (status);
`

// interface guard ensures SQLiteStore implements solwatch.Store
var _ solwatch.Store = SQLiteStore{}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a solwatch.Store implementor that uses sqlite
func NewSQLiteStore(fileName string) (SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fileName)
	if err != nil {
		return SQLiteStore{}, dbErr(err, "opening database")
	}
	// init tables / indexes
	_, err = db.Exec(SETUP_SQL)
	if err != nil {
		return SQLiteStore{}, dbErr(err, "creating tables")
	}
	return SQLiteStore{db}, nil
}

// Defer this until shutdown
func (s SQLiteStore) Close() {
	s.db.Close()
}

func (s SQLiteStore) AddLink(l solwatch.PaymentLink) error {
	_, err := s.db.Exec(
		"INSERT INTO link (id, nickname, user_id, account_id, link, reference, recipient, network, expected_amount, status, created_at, amount_received, expiration, expired) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
		l.ID, l.Nickname, l.UserID, l.AccountID, l.Link, l.Reference, l.Recipient,
		string(l.Network), l.ExpectedAmount.String(), string(l.Status), l.CreatedAt,
		l.AmountReceived.String(), l.Expiration, l.Expired)
	if err != nil {
		return dbErr(err, "AddLink")
	}
	return nil
}

func (s SQLiteStore) GetLink(id string) (solwatch.PaymentLink, error) {
	row := s.db.QueryRow(
		"SELECT id, nickname, user_id, account_id, link, reference, recipient, network, expected_amount, status, created_at, amount_received, expiration, expired FROM link WHERE id = ?",
		id)
	link, err := scanLink(row)
	if err == sql.ErrNoRows {
		return solwatch.PaymentLink{}, solwatch.NewErr(solwatch.NotFound, "link not found: %s", id)
	}
	if err != nil {
		return solwatch.PaymentLink{}, dbErr(err, "GetLink")
	}
	return link, nil
}

func (s SQLiteStore) ListWatchable() ([]solwatch.PaymentLink, error) {
	rows, err := s.db.Query(
		"SELECT id, nickname, user_id, account_id, link, reference, recipient, network, expected_amount, status, created_at, amount_received, expiration, expired FROM link WHERE status IN (?, ?)",
		string(solwatch.StatusCreated), string(solwatch.StatusPending))
	if err != nil {
		return nil, dbErr(err, "ListWatchable")
	}
	defer rows.Close()
	links := []solwatch.PaymentLink{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, dbErr(err, "ListWatchable")
		}
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, dbErr(err, "ListWatchable")
	}
	return links, nil
}

func (s SQLiteStore) UpdatePending(id string) error {
	_, err := s.db.Exec("UPDATE link SET status = ? WHERE id = ?",
		string(solwatch.StatusPending), id)
	if err != nil {
		return dbErr(err, "UpdatePending")
	}
	return nil
}

func (s SQLiteStore) UpdateExpired(id string) error {
	_, err := s.db.Exec("UPDATE link SET status = ?, expired = TRUE WHERE id = ?",
		string(solwatch.StatusExpired), id)
	if err != nil {
		return dbErr(err, "UpdateExpired")
	}
	return nil
}

func (s SQLiteStore) UpdateReceived(id string, status solwatch.LinkStatus, amount decimal.Decimal) error {
	_, err := s.db.Exec("UPDATE link SET status = ?, amount_received = ?, received_at = ? WHERE id = ?",
		string(status), amount.String(), time.Now(), id)
	if err != nil {
		return dbErr(err, "UpdateReceived")
	}
	return nil
}

// scanner abstracts sql.Row / sql.Rows for scanLink.
type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (solwatch.PaymentLink, error) {
	var l solwatch.PaymentLink
	var network, expectedAmount, status, amountReceived string
	err := row.Scan(&l.ID, &l.Nickname, &l.UserID, &l.AccountID, &l.Link,
		&l.Reference, &l.Recipient, &network, &expectedAmount, &status,
		&l.CreatedAt, &amountReceived, &l.Expiration, &l.Expired)
	if err != nil {
		return solwatch.PaymentLink{}, err
	}
	l.Network = solwatch.Network(network)
	l.Status = solwatch.LinkStatus(status)
	l.ExpectedAmount, err = decimal.NewFromString(expectedAmount)
	if err != nil {
		return solwatch.PaymentLink{}, err
	}
	l.AmountReceived, err = decimal.NewFromString(amountReceived)
	if err != nil {
		return solwatch.PaymentLink{}, err
	}
	return l, nil
}

func dbErr(err error, where string) error {
	return solwatch.NewErr(solwatch.UnknownError, "db error in %s: %v", where, err)
}
