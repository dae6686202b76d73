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

type StateRepo struct {
	db *gorm.DB
}

func NewStateRepo(db *gorm.DB) StateRepo {
	return StateRepo{db: db}
}

func (r StateRepo) PutConfig(ctx context.Context, cfg game.Configuration) error {
	row := model.State{
		ID:        model.StateSingletonID,
		Owner:     cfg.Owner,
		UpdatedAt: time.Now().UTC(),
	}
	err := dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "updated_at"}),
	}).Create(&row).Error
	return ports.WrapStorage("put config", err)
}

func (r StateRepo) GetConfig(ctx context.Context) (game.Configuration, error) {
	var row model.State
	if err := dbFor(ctx, r.db).Where(&model.State{ID: model.StateSingletonID}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.Configuration{}, ports.ErrNotFound
		}
		return game.Configuration{}, ports.WrapStorage("get config", err)
	}
	return game.Configuration{Owner: row.Owner}, nil
}

func (r StateRepo) PutContractInfo(ctx context.Context, info game.ContractInfo) error {
	row := model.ContractInfo{
		ID:        model.StateSingletonID,
		Contract:  info.Name,
		Version:   info.Version,
		UpdatedAt: time.Now().UTC(),
	}
	err := dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"contract", "version", "updated_at"}),
	}).Create(&row).Error
	return ports.WrapStorage("put contract info", err)
}

func (r StateRepo) GetContractInfo(ctx context.Context) (game.ContractInfo, error) {
	var row model.ContractInfo
	if err := dbFor(ctx, r.db).Where(&model.ContractInfo{ID: model.StateSingletonID}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.ContractInfo{}, ports.ErrNotFound
		}
		return game.ContractInfo{}, ports.WrapStorage("get contract info", err)
	}
	return game.ContractInfo{Name: row.Contract, Version: row.Version}, nil
}
