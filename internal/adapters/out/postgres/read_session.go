// Package postgres provides the GORM-based read session the exception scan
// uses to load shipments.
//
// A scan cycle reads shipments, containers and milestones with many small
// queries. Running them inside one read-only REPEATABLE READ transaction
// gives the cycle a consistent snapshot: a shipment delivered halfway through
// the cycle is either seen with all its containers or not at all.
//
// Usage:
//
//	factory := NewGormReadSessionFactory(db)
//	session := factory.Create()
//
//	if err := session.Begin(ctx); err != nil {
//	    return err
//	}
//	defer session.Close(ctx)
//
//	shipments, err := session.ShipmentStore().QueryActiveShipments(ctx)
//
// Every store query inside the snapshot runs behind a savepoint, so one
// failing query does not abort the rest of the cycle's reads.
//
// Sessions are not safe for concurrent use; each cycle creates its own.
// Nothing is ever committed: Close always rolls the transaction back.
package postgres

import (
	"context"
	"database/sql"

	"logistics/internal/adapters/out/postgres/shipmentrepo"
	"logistics/internal/core/ports"

	"gorm.io/gorm"
)

// GormReadSessionFactory creates ReadSession instances over one connection pool.
type GormReadSessionFactory struct {
	db *gorm.DB
}

// NewGormReadSessionFactory creates a factory for read-only sessions.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormReadSessionFactory(db)
func NewGormReadSessionFactory(db *gorm.DB) *GormReadSessionFactory {
	return &GormReadSessionFactory{db: db}
}

// Create produces a fresh session with no open transaction.
func (f *GormReadSessionFactory) Create() ports.ReadSession {
	return &GormReadSession{db: f.db}
}

// GormReadSession wraps one read-only transaction.
type GormReadSession struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the snapshot. Calling Begin on an open session is a no-op.
func (s *GormReadSession) Begin(ctx context.Context) error {
	if s.tx != nil {
		return nil
	}

	tx := s.db.WithContext(ctx).Begin(&sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if tx.Error != nil {
		return tx.Error
	}

	s.tx = tx
	return nil
}

// Close rolls the snapshot back. It returns gorm.ErrInvalidTransaction when
// no snapshot is open.
func (s *GormReadSession) Close(_ context.Context) error {
	if s.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := s.tx.Rollback().Error
	s.tx = nil
	return err
}

// ShipmentStore returns a store bound to the open snapshot, or to the plain
// connection pool when Begin has not been called.
func (s *GormReadSession) ShipmentStore() ports.ShipmentStore {
	if s.tx != nil {
		return newSavepointStore(s.tx)
	}
	return shipmentrepo.NewGormShipmentStore(s.db)
}

// Tx exposes the open transaction, nil when the session is closed.
func (s *GormReadSession) Tx() *gorm.DB {
	return s.tx
}
