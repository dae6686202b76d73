package session

import (
	"context"

	"rpsarena/internal/app/ports"
	"rpsarena/internal/domain/game"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubStateRepo struct {
	config *game.Configuration
	info   *game.ContractInfo
	putErr error
	getErr error
	puts   int
}

func (r *stubStateRepo) PutConfig(_ context.Context, cfg game.Configuration) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.puts++
	r.config = &cfg
	return nil
}

func (r *stubStateRepo) GetConfig(_ context.Context) (game.Configuration, error) {
	if r.getErr != nil {
		return game.Configuration{}, r.getErr
	}
	if r.config == nil {
		return game.Configuration{}, ports.ErrNotFound
	}
	return *r.config, nil
}

func (r *stubStateRepo) PutContractInfo(_ context.Context, info game.ContractInfo) error {
	r.info = &info
	return nil
}

func (r *stubStateRepo) GetContractInfo(_ context.Context) (game.ContractInfo, error) {
	if r.info == nil {
		return game.ContractInfo{}, ports.ErrNotFound
	}
	return *r.info, nil
}

type stubGameRepo struct {
	byHost map[string]game.Session
	tryErr error
	putErr error
}

func newStubGameRepo() *stubGameRepo {
	return &stubGameRepo{byHost: map[string]game.Session{}}
}

func (r *stubGameRepo) TryGet(_ context.Context, host string) (game.Session, bool, error) {
	if r.tryErr != nil {
		return game.Session{}, false, r.tryErr
	}
	s, ok := r.byHost[host]
	return s, ok, nil
}

func (r *stubGameRepo) Get(_ context.Context, host string) (game.Session, error) {
	s, ok := r.byHost[host]
	if !ok {
		return game.Session{}, ports.ErrNotFound
	}
	return s, nil
}

func (r *stubGameRepo) Put(_ context.Context, s game.Session) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.byHost[s.Host] = s
	return nil
}

type stubMetrics struct {
	started  int
	rejected map[string]int
	failures int
	queries  int
}

func (m *stubMetrics) RecordStarted() { m.started++ }

func (m *stubMetrics) RecordRejected(code string) {
	if m.rejected == nil {
		m.rejected = map[string]int{}
	}
	m.rejected[code]++
}

func (m *stubMetrics) RecordFailure() { m.failures++ }

func (m *stubMetrics) RecordQuery() { m.queries++ }

var _ ports.StateRepository = (*stubStateRepo)(nil)
var _ ports.GameRepository = (*stubGameRepo)(nil)
var _ ports.GameMetrics = (*stubMetrics)(nil)
