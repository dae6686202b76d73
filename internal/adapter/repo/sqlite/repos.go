package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"
)

func storageErr(op string, err error) error {
	if isBusy(err) {
		op += " (database busy)"
	}
	return ports.WrapStorage(op, err)
}

type StateRepo struct {
	db *sql.DB
}

func NewStateRepo(db *sql.DB) StateRepo {
	return StateRepo{db: db}
}

func (r StateRepo) PutConfig(ctx context.Context, cfg game.Configuration) error {
	_, err := queryerFor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO state (id, owner, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET owner = excluded.owner, updated_at = excluded.updated_at`,
		cfg.Owner, toMillis(time.Now()),
	)
	if err != nil {
		return storageErr("put config", err)
	}
	return nil
}

func (r StateRepo) GetConfig(ctx context.Context) (game.Configuration, error) {
	var cfg game.Configuration
	err := queryerFor(ctx, r.db).QueryRowContext(ctx, `SELECT owner FROM state WHERE id = 1`).Scan(&cfg.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Configuration{}, ports.ErrNotFound
	}
	if err != nil {
		return game.Configuration{}, storageErr("get config", err)
	}
	return cfg, nil
}

func (r StateRepo) PutContractInfo(ctx context.Context, info game.ContractInfo) error {
	_, err := queryerFor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO contract_info (id, contract, version, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET contract = excluded.contract, version = excluded.version, updated_at = excluded.updated_at`,
		info.Name, info.Version, toMillis(time.Now()),
	)
	if err != nil {
		return storageErr("put contract info", err)
	}
	return nil
}

func (r StateRepo) GetContractInfo(ctx context.Context) (game.ContractInfo, error) {
	var info game.ContractInfo
	err := queryerFor(ctx, r.db).QueryRowContext(ctx, `SELECT contract, version FROM contract_info WHERE id = 1`).Scan(&info.Name, &info.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return game.ContractInfo{}, ports.ErrNotFound
	}
	if err != nil {
		return game.ContractInfo{}, storageErr("get contract info", err)
	}
	return info, nil
}

type GameRepo struct {
	db *sql.DB
}

func NewGameRepo(db *sql.DB) GameRepo {
	return GameRepo{db: db}
}

func (r GameRepo) TryGet(ctx context.Context, host string) (game.Session, bool, error) {
	var hostMove, oppMove, outcome string
	s := game.Session{Host: host}
	err := queryerFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT opponent, host_move, opponent_move, outcome FROM game_data WHERE host = ?`, host,
	).Scan(&s.Opponent, &hostMove, &oppMove, &outcome)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Session{}, false, nil
	}
	if err != nil {
		return game.Session{}, false, storageErr("get game", err)
	}
	if s.HostMove, err = game.ParseMove(hostMove); err != nil {
		return game.Session{}, false, storageErr("decode game", err)
	}
	if s.OpponentMove, err = game.ParseMove(oppMove); err != nil {
		return game.Session{}, false, storageErr("decode game", err)
	}
	if s.Outcome, err = game.ParseOutcome(outcome); err != nil {
		return game.Session{}, false, storageErr("decode game", err)
	}
	return s, true, nil
}

func (r GameRepo) Get(ctx context.Context, host string) (game.Session, error) {
	s, ok, err := r.TryGet(ctx, host)
	if err != nil {
		return game.Session{}, err
	}
	if !ok {
		return game.Session{}, ports.ErrNotFound
	}
	return s, nil
}

func (r GameRepo) Put(ctx context.Context, s game.Session) error {
	now := toMillis(time.Now())
	_, err := queryerFor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO game_data (host, opponent, host_move, opponent_move, outcome, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(host) DO UPDATE SET
		   opponent = excluded.opponent,
		   host_move = excluded.host_move,
		   opponent_move = excluded.opponent_move,
		   outcome = excluded.outcome,
		   updated_at = excluded.updated_at`,
		s.Host, s.Opponent, string(s.HostMove), string(s.OpponentMove), string(s.Outcome), now, now,
	)
	if err != nil {
		return storageErr(fmt.Sprintf("put game %q", s.Host), err)
	}
	return nil
}
