// Package model holds the gorm row types for the Postgres schema in
// db/migrations.
package model

import "time"

// StateSingletonID is the primary key of the only row in the singleton tables.
const StateSingletonID int16 = 1

type State struct {
	ID        int16     `gorm:"column:id;primaryKey"`
	Owner     string    `gorm:"column:owner;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (State) TableName() string { return "state" }

type ContractInfo struct {
	ID        int16     `gorm:"column:id;primaryKey"`
	Contract  string    `gorm:"column:contract;not null"`
	Version   string    `gorm:"column:version;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (ContractInfo) TableName() string { return "contract_info" }

type GameData struct {
	Host         string    `gorm:"column:host;primaryKey"`
	Opponent     string    `gorm:"column:opponent;not null"`
	HostMove     string    `gorm:"column:host_move;not null"`
	OpponentMove string    `gorm:"column:opponent_move;not null"`
	Outcome      string    `gorm:"column:outcome;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (GameData) TableName() string { return "game_data" }
