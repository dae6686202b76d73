package gormrepo

import (
	"context"
	"errors"
	"time"

	"rpsarena/internal/adapter/repo/gorm/model"
	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) GameRepo {
	return GameRepo{db: db}
}

func (r GameRepo) TryGet(ctx context.Context, host string) (game.Session, bool, error) {
	var row model.GameData
	if err := dbFor(ctx, r.db).Where("host = ?", host).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.Session{}, false, nil
		}
		return game.Session{}, false, ports.WrapStorage("get game", err)
	}
	s, err := toSession(row)
	if err != nil {
		return game.Session{}, false, ports.WrapStorage("decode game", err)
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
	now := time.Now().UTC()
	row := model.GameData{
		Host:         s.Host,
		Opponent:     s.Opponent,
		HostMove:     string(s.HostMove),
		OpponentMove: string(s.OpponentMove),
		Outcome:      string(s.Outcome),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "host"}},
		DoUpdates: clause.AssignmentColumns([]string{"opponent", "host_move", "opponent_move", "outcome", "updated_at"}),
	}).Create(&row).Error
	return ports.WrapStorage("put game", err)
}

func toSession(row model.GameData) (game.Session, error) {
	hostMove, err := game.ParseMove(row.HostMove)
	if err != nil {
		return game.Session{}, err
	}
	oppMove, err := game.ParseMove(row.OpponentMove)
	if err != nil {
		return game.Session{}, err
	}
	outcome, err := game.ParseOutcome(row.Outcome)
	if err != nil {
		return game.Session{}, err
	}
	return game.Session{
		Host:         row.Host,
		Opponent:     row.Opponent,
		HostMove:     hostMove,
		OpponentMove: oppMove,
		Outcome:      outcome,
	}, nil
}
