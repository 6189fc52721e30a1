// Package repomanager hands out repositories bound to a database handle.
// Passing a dbx.DBTX lets callers choose between the pooled *sql.DB and a
// transaction without the repositories knowing the difference.
package repomanager

import (
	"github.com/yshchur/contacts-api/internal/dbx"
	"github.com/yshchur/contacts-api/internal/repositories/contacts"
	"github.com/yshchur/contacts-api/internal/repositories/revocations"
	"github.com/yshchur/contacts-api/internal/repositories/users"
)

type Manager interface {
	Users(db dbx.DBTX) users.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	Revocations(db dbx.DBTX) revocations.Repository
}
