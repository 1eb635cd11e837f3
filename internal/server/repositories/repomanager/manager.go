package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cartsync/internal/dbx"
	"github.com/dmitrijs2005/cartsync/internal/server/repositories/cartitems"
	"github.com/dmitrijs2005/cartsync/internal/server/repositories/orders"
	"github.com/dmitrijs2005/cartsync/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/cartsync/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	CartItems(db dbx.DBTX) cartitems.Repository
	Orders(db dbx.DBTX) orders.Repository
}
