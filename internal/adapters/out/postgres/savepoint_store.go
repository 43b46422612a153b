package postgres

import (
	"context"
	"errors"
	"fmt"

	"logistics/internal/adapters/out/postgres/shipmentrepo"
	"logistics/internal/core/domain/model/shipment"

	"gorm.io/gorm"
)

const storeSavepoint = "shipment_store_query"

// savepointStore runs every query of the snapshot behind a savepoint.
//
// PostgreSQL aborts the whole transaction on the first failed statement.
// Rolling back to the savepoint confines the failure to that one query, so
// the containers and milestones of the next shipment still load.
type savepointStore struct {
	tx *gorm.DB
}

func newSavepointStore(tx *gorm.DB) *savepointStore {
	return &savepointStore{tx: tx}
}

func (s *savepointStore) QueryActiveShipments(ctx context.Context) (shipments []shipment.Shipment, err error) {
	err = s.guard(ctx, func(store *shipmentrepo.GormShipmentStore) error {
		shipments, err = store.QueryActiveShipments(ctx)
		return err
	})
	return shipments, err
}

func (s *savepointStore) QueryContainers(ctx context.Context, shipmentID, containerType string) (containers []shipment.Container, err error) {
	err = s.guard(ctx, func(store *shipmentrepo.GormShipmentStore) error {
		containers, err = store.QueryContainers(ctx, shipmentID, containerType)
		return err
	})
	return containers, err
}

func (s *savepointStore) QueryPendingMilestones(ctx context.Context, shipmentID string) (milestones []shipment.Milestone, err error) {
	err = s.guard(ctx, func(store *shipmentrepo.GormShipmentStore) error {
		milestones, err = store.QueryPendingMilestones(ctx, shipmentID)
		return err
	})
	return milestones, err
}

// guard wraps query in SAVEPOINT / ROLLBACK TO / RELEASE. The statements
// are issued with Exec because the dialector's SavePoint and RollbackTo
// discard the statement error.
func (s *savepointStore) guard(ctx context.Context, query func(*shipmentrepo.GormShipmentStore) error) error {
	if err := s.exec(ctx, "SAVEPOINT "+storeSavepoint); err != nil {
		return fmt.Errorf("set savepoint: %w", err)
	}

	queryErr := query(shipmentrepo.NewGormShipmentStore(s.tx))
	if queryErr != nil {
		if err := s.exec(ctx, "ROLLBACK TO SAVEPOINT "+storeSavepoint); err != nil {
			return errors.Join(queryErr, fmt.Errorf("roll back to savepoint: %w", err))
		}
	}

	if err := s.exec(ctx, "RELEASE SAVEPOINT "+storeSavepoint); err != nil {
		return errors.Join(queryErr, fmt.Errorf("release savepoint: %w", err))
	}
	return queryErr
}

func (s *savepointStore) exec(ctx context.Context, statement string) error {
	return s.tx.WithContext(ctx).Exec(statement).Error
}
