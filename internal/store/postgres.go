package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS market_params (
    id    smallint PRIMARY KEY CHECK (id = 1),
    denom text NOT NULL
);
CREATE TABLE IF NOT EXISTS counters (
    name  text PRIMARY KEY,
    value bigint NOT NULL
);
CREATE TABLE IF NOT EXISTS offers (
    id             bigint PRIMARY KEY,
    owner          text NOT NULL,
    charger_id     text NOT NULL,
    charger_status text NOT NULL,
    latitude       double precision NOT NULL,
    longitude      double precision NOT NULL,
    tariff         bigint NOT NULL,
    name           text NOT NULL,
    plug_type      text NOT NULL
);
CREATE TABLE IF NOT EXISTS transfers (
    id                 bigint PRIMARY KEY,
    offer_id           bigint NOT NULL,
    charger_id         text NOT NULL,
    owner              text NOT NULL,
    driver             text NOT NULL,
    offered_tariff     bigint NOT NULL,
    status             text NOT NULL,
    collateral         bigint NOT NULL,
    energy_to_transfer bigint NOT NULL,
    energy_transferred bigint NOT NULL,
    paid_date          timestamptz NOT NULL
);`

const (
	counterOffers    = "offer_count"
	counterTransfers = "transfer_count"
)

// PostgresStore implements Store on Postgres via sqlx with the pgx driver.
type PostgresStore struct {
	db *sqlx.DB
}

// ConnectPostgres opens the database and ensures the schema exists.
func ConnectPostgres(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Denom(ctx context.Context) (string, error) {
	var denom string
	err := s.db.GetContext(ctx, &denom, `SELECT denom FROM market_params WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return denom, err
}

func (s *PostgresStore) SetDenom(ctx context.Context, denom string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO market_params(id, denom) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET denom = EXCLUDED.denom`, denom)
	return err
}

func (s *PostgresStore) counter(ctx context.Context, name string) (uint64, error) {
	var value uint64
	err := s.db.GetContext(ctx, &value, `SELECT value FROM counters WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return value, err
}

func (s *PostgresStore) setCounter(ctx context.Context, name string, value uint64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO counters(name, value) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, name, value)
	return err
}

func (s *PostgresStore) OfferCount(ctx context.Context) (uint64, error) {
	return s.counter(ctx, counterOffers)
}

func (s *PostgresStore) SetOfferCount(ctx context.Context, n uint64) error {
	return s.setCounter(ctx, counterOffers, n)
}

func (s *PostgresStore) GetOffer(ctx context.Context, id uint64) (domain.EnergyTransferOffer, error) {
	var offer domain.EnergyTransferOffer
	err := s.db.GetContext(ctx, &offer, `SELECT * FROM offers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EnergyTransferOffer{}, ErrNotFound
	}
	return offer, err
}

func (s *PostgresStore) PutOffer(ctx context.Context, offer domain.EnergyTransferOffer) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO offers(id, owner, charger_id, charger_status, latitude, longitude, tariff, name, plug_type)
		 VALUES (:id, :owner, :charger_id, :charger_status, :latitude, :longitude, :tariff, :name, :plug_type)
		 ON CONFLICT (id) DO UPDATE SET
		     owner = EXCLUDED.owner, charger_id = EXCLUDED.charger_id,
		     charger_status = EXCLUDED.charger_status, latitude = EXCLUDED.latitude,
		     longitude = EXCLUDED.longitude, tariff = EXCLUDED.tariff,
		     name = EXCLUDED.name, plug_type = EXCLUDED.plug_type`, offer)
	return err
}

func (s *PostgresStore) DeleteOffer(ctx context.Context, id uint64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListOffers(ctx context.Context) ([]domain.EnergyTransferOffer, error) {
	out := []domain.EnergyTransferOffer{}
	err := s.db.SelectContext(ctx, &out, `SELECT * FROM offers ORDER BY id`)
	return out, err
}

func (s *PostgresStore) TransferCount(ctx context.Context) (uint64, error) {
	return s.counter(ctx, counterTransfers)
}

func (s *PostgresStore) SetTransferCount(ctx context.Context, n uint64) error {
	return s.setCounter(ctx, counterTransfers, n)
}

func (s *PostgresStore) GetTransfer(ctx context.Context, id uint64) (domain.EnergyTransfer, error) {
	var transfer domain.EnergyTransfer
	err := s.db.GetContext(ctx, &transfer, `SELECT * FROM transfers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EnergyTransfer{}, ErrNotFound
	}
	return transfer, err
}

func (s *PostgresStore) PutTransfer(ctx context.Context, transfer domain.EnergyTransfer) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO transfers(id, offer_id, charger_id, owner, driver, offered_tariff, status,
		                       collateral, energy_to_transfer, energy_transferred, paid_date)
		 VALUES (:id, :offer_id, :charger_id, :owner, :driver, :offered_tariff, :status,
		         :collateral, :energy_to_transfer, :energy_transferred, :paid_date)
		 ON CONFLICT (id) DO UPDATE SET
		     status = EXCLUDED.status, energy_transferred = EXCLUDED.energy_transferred,
		     paid_date = EXCLUDED.paid_date`, transfer)
	return err
}

func (s *PostgresStore) DeleteTransfer(ctx context.Context, id uint64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transfers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListTransfers(ctx context.Context) ([]domain.EnergyTransfer, error) {
	out := []domain.EnergyTransfer{}
	err := s.db.SelectContext(ctx, &out, `SELECT * FROM transfers ORDER BY id`)
	return out, err
}

func (s *PostgresStore) Close() error { return s.db.Close() }
