// Package battleserver exposes the battle engine over gRPC. Requests and
// responses are google.protobuf.Struct values so the wire contract stays
// schema-light; field names mirror the engine's operations.
package battleserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/battle"
	"github.com/cory-johannsen/battlesim/internal/game/content"
	"github.com/cory-johannsen/battlesim/internal/game/lineup"
	"github.com/cory-johannsen/battlesim/internal/observability"
	"github.com/cory-johannsen/battlesim/internal/savegame"
)

// Service implements BattleServiceServer on top of a battle.Engine.
type Service struct {
	engine     *battle.Engine
	db         *content.DB
	strategies lineup.Strategies
	store      savegame.Store
	logger     *zap.Logger
}

// NewService creates the gRPC service.
//
// Precondition: engine, db, strategies, store and logger must be non-nil.
func NewService(engine *battle.Engine, db *content.DB, strategies lineup.Strategies, store savegame.Store, logger *zap.Logger) *Service {
	return &Service{engine: engine, db: db, strategies: strategies, store: store, logger: logger}
}

// StartBattle builds both trainers from {player1, player2} and starts a battle.
// Response: {battle_id, snapshot}.
func (s *Service) StartBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var m lineup.Matchup
	var err error
	if m.Player1, err = trainerSpec(req, "player1"); err != nil {
		return nil, err
	}
	if m.Player2, err = trainerSpec(req, "player2"); err != nil {
		return nil, err
	}
	t1, t2, err := lineup.BuildPair(s.db, s.strategies, m)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	h, snap, err := s.engine.StartBattle(t1, t2)
	if err != nil {
		return nil, toStatus(err)
	}
	observability.ForBattle(s.logger, h.String(), t1.Name, t2.Name).Info("battle started over grpc")
	return handleResponse(h, snap)
}

// PerformAction applies {battle_id, action} for the human side to move.
// Response: {snapshot}.
func (s *Service) PerformAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	h, err := handleOf(req)
	if err != nil {
		return nil, err
	}
	a, err := actionOf(req)
	if err != nil {
		return nil, err
	}
	snap, err := s.engine.PerformAction(h, a)
	if err != nil {
		return nil, toStatus(err)
	}
	return snapshotResponse(snap)
}

// ExecuteCpuTurn runs one CPU turn of {battle_id}. Response: {snapshot}.
func (s *Service) ExecuteCpuTurn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	h, err := handleOf(req)
	if err != nil {
		return nil, err
	}
	snap, err := s.engine.ExecuteCpuTurn(h)
	if err != nil {
		return nil, toStatus(err)
	}
	return snapshotResponse(snap)
}

// GetWinner reports the result of a finished {battle_id}.
// Response: {winner, draw}. A running battle yields FailedPrecondition.
func (s *Service) GetWinner(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	h, err := handleOf(req)
	if err != nil {
		return nil, err
	}
	w, err := s.engine.Winner(h)
	if err != nil {
		return nil, toStatus(err)
	}
	out := map[string]any{"draw": w == nil, "winner": ""}
	if w != nil {
		out["winner"] = w.Name
	}
	return structpb.NewStruct(out)
}

// SaveBattle stores {battle_id} in {slot}. Response: {slot}.
func (s *Service) SaveBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	h, err := handleOf(req)
	if err != nil {
		return nil, err
	}
	slot, err := stringField(req, "slot")
	if err != nil {
		return nil, err
	}
	if err := savegame.ValidateSlot(slot); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	var save *savegame.Save
	if err := s.engine.With(h, func(b *battle.Battle) error {
		var err error
		save, err = savegame.Capture(b)
		return err
	}); err != nil {
		return nil, toStatus(err)
	}
	if err := s.store.Put(ctx, slot, save); err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info("battle saved", zap.String("battle", h.String()), zap.String("slot", slot))
	return structpb.NewStruct(map[string]any{"slot": slot})
}

// LoadBattle restores {slot} as a new battle. Response: {battle_id, snapshot}.
func (s *Service) LoadBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	slot, err := stringField(req, "slot")
	if err != nil {
		return nil, err
	}
	save, err := s.store.Get(ctx, slot)
	if err != nil {
		return nil, toStatus(err)
	}
	b, err := savegame.Restore(save, s.strategies, s.engine.Options()...)
	if err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	h := s.engine.Adopt(b)
	s.logger.Info("battle loaded", zap.String("battle", h.String()), zap.String("slot", slot))
	return handleResponse(h, b.Snapshot())
}

// toStatus maps engine and storage errors onto gRPC status codes.
func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, action.ErrIllegalTurn):
		code = codes.FailedPrecondition
	case errors.Is(err, action.ErrInvalidAction),
		errors.Is(err, action.ErrIllegalItemUse),
		errors.Is(err, action.ErrIllegalSwitch),
		errors.Is(err, content.ErrUnknownSpecies),
		errors.Is(err, content.ErrUnknownMove),
		errors.Is(err, content.ErrUnknownItem),
		errors.Is(err, lineup.ErrUnknownStrategy),
		errors.Is(err, battle.ErrNotReady):
		code = codes.InvalidArgument
	case errors.Is(err, battle.ErrBattleNotFound),
		errors.Is(err, savegame.ErrNotFound):
		code = codes.NotFound
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

func handleResponse(h battle.Handle, snap battle.Snapshot) (*structpb.Struct, error) {
	sv, err := snapshotValue(snap)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"battle_id": structpb.NewStringValue(h.String()),
		"snapshot":  sv,
	}}, nil
}

func snapshotResponse(snap battle.Snapshot) (*structpb.Struct, error) {
	sv, err := snapshotValue(snap)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{"snapshot": sv}}, nil
}

func handleOf(req *structpb.Struct) (battle.Handle, error) {
	id, err := stringField(req, "battle_id")
	if err != nil {
		return battle.Handle{}, err
	}
	h, err := battle.ParseHandle(id)
	if err != nil {
		return battle.Handle{}, toStatus(err)
	}
	return h, nil
}

func invalid(format string, args ...any) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf(format, args...))
}
