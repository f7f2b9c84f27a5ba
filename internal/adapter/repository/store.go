package repository

import (
	sqliterepo "github.com/johnquangdev/caption-relay/internal/adapter/repository/sqlite"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
)

// NewStoreFor wires the repositories matching the connection's driver
func NewStoreFor(conn *database.Connection) *repositories.Store {
	if conn.Gorm != nil {
		return NewStore(conn.Gorm)
	}
	return sqliterepo.NewStore(conn.SQL)
}
