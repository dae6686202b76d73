package gormrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rpsarena/internal/adapter/repo/gorm/model"
	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("RPSARENA_DB_DSN")
	if dsn == "" {
		t.Skip("RPSARENA_DB_DSN is required for integration test")
	}
	db, err := OpenPostgres(dsn, zerolog.Nop())
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), db, filepath.Join("..", "..", "..", "..", "db", "migrations"), zerolog.Nop()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestGameRepo_RoundTripAndOverwrite(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	host := "it-game-roundtrip"
	_ = db.Exec("DELETE FROM game_data WHERE host = ?", host).Error

	repo := NewGameRepo(db)
	if _, ok, err := repo.TryGet(ctx, host); err != nil || ok {
		t.Fatalf("expected absent session, ok=%v err=%v", ok, err)
	}
	if _, err := repo.Get(ctx, host); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := game.NewSession(host, "someone", game.MoveRock)
	if err := repo.Put(ctx, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := repo.Get(ctx, host)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("session mismatch: got=%+v want=%+v", got, want)
	}

	want.Opponent = "other"
	if err := repo.Put(ctx, want); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = repo.Get(ctx, host)
	if got.Opponent != "other" {
		t.Fatalf("expected overwrite, got %+v", got)
	}
}

func TestStateRepo_ConfigLastWriteWins(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM state").Error
	_ = db.Exec("DELETE FROM contract_info").Error

	repo := NewStateRepo(db)
	if _, err := repo.GetConfig(ctx); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, owner := range []string{"first", "second"} {
		if err := repo.PutConfig(ctx, game.Configuration{Owner: owner}); err != nil {
			t.Fatalf("put config: %v", err)
		}
	}
	cfg, err := repo.GetConfig(ctx)
	if err != nil || cfg.Owner != "second" {
		t.Fatalf("expected owner second, got %+v err=%v", cfg, err)
	}

	if err := repo.PutContractInfo(ctx, game.ContractInfo{Name: "rpsarena", Version: "1.2.3"}); err != nil {
		t.Fatalf("put contract info: %v", err)
	}
	info, err := repo.GetContractInfo(ctx)
	if err != nil || info.Version != "1.2.3" {
		t.Fatalf("unexpected contract info %+v err=%v", info, err)
	}
}

func TestTxManager_RollsBackFailedCommand(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	host := "it-game-rollback"
	_ = db.Exec("DELETE FROM game_data WHERE host = ?", host).Error

	repo := NewGameRepo(db)
	boom := errors.New("boom")
	err := NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Put(txCtx, game.NewSession(host, "x", game.MovePaper)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok, err := repo.TryGet(ctx, host); err != nil || ok {
		t.Fatalf("expected rolled back session, ok=%v err=%v", ok, err)
	}
}

func TestToSession_RejectsCorruptTags(t *testing.T) {
	_, err := toSession(modelRow("host", "Lizard", "Waiting", "InProgress"))
	if !errors.Is(err, game.ErrUnknownMove) {
		t.Fatalf("expected ErrUnknownMove, got %v", err)
	}
	_, err = toSession(modelRow("host", "Rock", "Waiting", "Draw"))
	if !errors.Is(err, game.ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}

func modelRow(host, hostMove, oppMove, outcome string) model.GameData {
	return model.GameData{
		Host:         host,
		Opponent:     "opp",
		HostMove:     hostMove,
		OpponentMove: oppMove,
		Outcome:      outcome,
	}
}
