package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const recordsTable = "kv_records"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (db *DB) selectRecordQuery(key string) (string, []any, error) {
	return db.builder.
		Select("record_value", "version").
		From(recordsTable).
		Where(sq.Eq{"record_key": key}).
		ToSql()
}

func (db *DB) upsertRecordQuery(key string, value []byte, now time.Time) (string, []any, error) {
	return db.builder.
		Insert(recordsTable).
		Columns("record_key", "record_value", "version", "updated_at").
		Values(key, string(value), 1, now).
		Suffix("ON CONFLICT (record_key) DO UPDATE SET " +
			"record_value = EXCLUDED.record_value, " +
			"version = " + recordsTable + ".version + 1, " +
			"updated_at = EXCLUDED.updated_at").
		ToSql()
}

func (db *DB) insertIfAbsentQuery(key string, value []byte, now time.Time) (string, []any, error) {
	return db.builder.
		Insert(recordsTable).
		Columns("record_key", "record_value", "version", "updated_at").
		Values(key, string(value), 1, now).
		Suffix("ON CONFLICT (record_key) DO NOTHING").
		ToSql()
}

// casUpdateQuery only matches while the row still carries version.
func (db *DB) casUpdateQuery(key string, value []byte, version int64, now time.Time) (string, []any, error) {
	return db.builder.
		Update(recordsTable).
		Set("record_value", string(value)).
		Set("version", version+1).
		Set("updated_at", now).
		Where(sq.Eq{"record_key": key, "version": version}).
		ToSql()
}

func (db *DB) deleteRecordQuery(key string) (string, []any, error) {
	return db.builder.
		Delete(recordsTable).
		Where(sq.Eq{"record_key": key}).
		ToSql()
}

// deleteUnchangedQuery only matches while the row still holds value.
func (db *DB) deleteUnchangedQuery(key string, value []byte) (string, []any, error) {
	return db.builder.
		Delete(recordsTable).
		Where(sq.Eq{"record_key": key, "record_value": string(value)}).
		ToSql()
}

func (db *DB) scanRecordsQuery(prefix string) (string, []any, error) {
	return db.builder.
		Select("record_key", "record_value").
		From(recordsTable).
		Where(sq.Expr(`record_key LIKE ? ESCAPE '\'`, likeEscaper.Replace(prefix)+"%")).
		OrderBy("record_key").
		ToSql()
}
