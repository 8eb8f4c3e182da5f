package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// WithSQLTx returns a gorm handle that runs its statements on tx.
// Services own the transaction through database/sql, repositories only borrow it.
func WithSQLTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	session := db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return session
}
