package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// updateBuilder collects "column = value" assignments for a partial update
// and renders them as a single UPDATE statement.
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdateBuilder(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (b *updateBuilder) set(column string, value any) {
	b.sets = append(b.sets, column+" = ?")
	b.args = append(b.args, value)
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

func (b *updateBuilder) build(where string, whereArgs ...any) (string, []any) {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", b.table, strings.Join(b.sets, ", "), where)
	args := append(append([]any{}, b.args...), whereArgs...)
	return query, args
}

// exec runs the built statement and reports notFound when no row matched.
func (b *updateBuilder) exec(db *sqlx.DB, notFound error, where string, whereArgs ...any) error {
	query, args := b.build(where, whereArgs...)
	result, err := db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result, notFound)
}

func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
