// Package repository holds the MySQL row access of the hosted backend. The
// sentinel errors below let the backend layer classify failures without
// inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned when inserting a user whose email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a row lookup matches nothing, or when a
// token row exists but is expired, revoked or already used.
var ErrNotFound = errors.New("not found")

const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
