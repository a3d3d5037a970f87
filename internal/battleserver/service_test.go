package battleserver_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/battlesim/internal/battleserver"
	"github.com/cory-johannsen/battlesim/internal/game/ai"
	"github.com/cory-johannsen/battlesim/internal/game/battle"
	"github.com/cory-johannsen/battlesim/internal/game/content"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/savegame"
)

func dial(t *testing.T) *battleserver.Client {
	t.Helper()
	db, err := content.Load("../../content")
	require.NoError(t, err)
	store, err := savegame.NewFileStore(t.TempDir())
	require.NoError(t, err)
	engine := battle.NewEngine(zap.NewNop(),
		battle.WithChart(db.Chart()),
		battle.WithRand(dice.NewSeededSource(7)),
	)
	svc := battleserver.NewService(engine, db, ai.NewRegistry(), store, zap.NewNop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	battleserver.RegisterBattleServiceServer(srv, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return battleserver.NewClient(conn)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func startReq(t *testing.T, p2Strategy string) *structpb.Struct {
	p2 := map[string]any{
		"name": "Blue",
		"team": []any{map[string]any{"species": "Squirtle"}},
	}
	if p2Strategy != "" {
		p2["strategy"] = p2Strategy
	}
	return mustStruct(t, map[string]any{
		"player1": map[string]any{
			"name":  "Red",
			"team":  []any{map[string]any{"species": "Pikachu", "nickname": "Sparky"}, map[string]any{"species": "Bulbasaur"}},
			"items": []any{"Potion"},
		},
		"player2": p2,
	})
}

func snapshotOf(t *testing.T, resp *structpb.Struct) *structpb.Struct {
	t.Helper()
	snap := resp.GetFields()["snapshot"].GetStructValue()
	require.NotNil(t, snap)
	return snap
}

func codeOf(err error) codes.Code { return status.Code(err) }

func TestService_StartAndPlay(t *testing.T) {
	c := dial(t)
	ctx := context.Background()

	resp, err := c.StartBattle(ctx, startReq(t, "attacking"))
	require.NoError(t, err)
	id := resp.GetFields()["battle_id"].GetStringValue()
	require.NotEmpty(t, id)

	snap := snapshotOf(t, resp)
	assert.Equal(t, "Red", snap.GetFields()["current_player"].GetStringValue())
	assert.True(t, snap.GetFields()["is_human_turn"].GetBoolValue())
	assert.Equal(t, "Sparky", snap.GetFields()["player1_active"].GetStructValue().GetFields()["name"].GetStringValue())

	resp, err = c.PerformAction(ctx, mustStruct(t, map[string]any{
		"battle_id": id,
		"action":    map[string]any{"kind": "attack", "move": 0},
	}))
	require.NoError(t, err)
	snap = snapshotOf(t, resp)
	assert.NotEmpty(t, snap.GetFields()["events"].GetListValue().GetValues())

	if snap.GetFields()["state"].GetStringValue() != battle.Finished.String() {
		assert.Equal(t, "Blue", snap.GetFields()["current_player"].GetStringValue())
		_, err = c.ExecuteCpuTurn(ctx, mustStruct(t, map[string]any{"battle_id": id}))
		require.NoError(t, err)
	}
}

func TestService_PlayToCompletion(t *testing.T) {
	c := dial(t)
	ctx := context.Background()

	resp, err := c.StartBattle(ctx, startReq(t, "attacking"))
	require.NoError(t, err)
	id := resp.GetFields()["battle_id"].GetStringValue()
	idReq := mustStruct(t, map[string]any{"battle_id": id})

	_, err = c.GetWinner(ctx, idReq)
	assert.Equal(t, codes.FailedPrecondition, codeOf(err))

	snap := snapshotOf(t, resp)
	for i := 0; i < 500 && snap.GetFields()["state"].GetStringValue() != battle.Finished.String(); i++ {
		if snap.GetFields()["is_human_turn"].GetBoolValue() {
			resp, err = c.PerformAction(ctx, mustStruct(t, map[string]any{
				"battle_id": id,
				"action":    map[string]any{"kind": "struggle"},
			}))
		} else {
			resp, err = c.ExecuteCpuTurn(ctx, idReq)
		}
		require.NoError(t, err)
		snap = snapshotOf(t, resp)
	}
	require.Equal(t, battle.Finished.String(), snap.GetFields()["state"].GetStringValue())

	w, err := c.GetWinner(ctx, idReq)
	require.NoError(t, err)
	draw := w.GetFields()["draw"].GetBoolValue()
	winner := w.GetFields()["winner"].GetStringValue()
	assert.True(t, draw || winner == "Red" || winner == "Blue")
}

func TestService_ErrorCodes(t *testing.T) {
	c := dial(t)
	ctx := context.Background()

	resp, err := c.StartBattle(ctx, startReq(t, "attacking"))
	require.NoError(t, err)
	id := resp.GetFields()["battle_id"].GetStringValue()

	tests := []struct {
		name string
		req  map[string]any
		want codes.Code
	}{
		{"bad move index", map[string]any{"battle_id": id, "action": map[string]any{"kind": "attack", "move": 9}}, codes.InvalidArgument},
		{"bad switch", map[string]any{"battle_id": id, "action": map[string]any{"kind": "switch", "target": 5}}, codes.InvalidArgument},
		{"bad item index", map[string]any{"battle_id": id, "action": map[string]any{"kind": "item", "item": 3, "target": 0}}, codes.InvalidArgument},
		{"unknown kind", map[string]any{"battle_id": id, "action": map[string]any{"kind": "dance"}}, codes.InvalidArgument},
		{"fractional index", map[string]any{"battle_id": id, "action": map[string]any{"kind": "attack", "move": 0.5}}, codes.InvalidArgument},
		{"missing action", map[string]any{"battle_id": id}, codes.InvalidArgument},
		{"unknown battle", map[string]any{"battle_id": "00000000-0000-0000-0000-000000000000", "action": map[string]any{"kind": "struggle"}}, codes.NotFound},
		{"malformed battle id", map[string]any{"battle_id": "nope", "action": map[string]any{"kind": "struggle"}}, codes.NotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.PerformAction(ctx, mustStruct(t, tc.req))
			assert.Equal(t, tc.want, codeOf(err))
		})
	}

	attack := mustStruct(t, map[string]any{"battle_id": id, "action": map[string]any{"kind": "attack", "move": 0}})
	_, err = c.PerformAction(ctx, attack)
	require.NoError(t, err)
	_, err = c.PerformAction(ctx, attack)
	assert.Equal(t, codes.FailedPrecondition, codeOf(err), "manual action on the CPU's turn")
}

func TestService_StartRejections(t *testing.T) {
	c := dial(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		species string
		strat   string
		want    codes.Code
	}{
		{"unknown species", "Mewthree", "", codes.InvalidArgument},
		{"unknown strategy", "Squirtle", "berserk", codes.InvalidArgument},
		{"empty team", "", "", codes.InvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p2 := map[string]any{"name": "Blue", "team": []any{}}
			if tc.species != "" {
				p2["team"] = []any{map[string]any{"species": tc.species}}
			}
			if tc.strat != "" {
				p2["strategy"] = tc.strat
			}
			_, err := c.StartBattle(ctx, mustStruct(t, map[string]any{
				"player1": map[string]any{"name": "Red", "team": []any{map[string]any{"species": "Pikachu"}}},
				"player2": p2,
			}))
			assert.Equal(t, tc.want, codeOf(err))
		})
	}

	_, err := c.StartBattle(ctx, mustStruct(t, map[string]any{"player1": map[string]any{"name": "Red"}}))
	assert.Equal(t, codes.InvalidArgument, codeOf(err))
}

func TestService_SaveAndLoad(t *testing.T) {
	c := dial(t)
	ctx := context.Background()

	resp, err := c.StartBattle(ctx, startReq(t, "expert"))
	require.NoError(t, err)
	id := resp.GetFields()["battle_id"].GetStringValue()

	_, err = c.PerformAction(ctx, mustStruct(t, map[string]any{
		"battle_id": id,
		"action":    map[string]any{"kind": "attack", "move": 1},
	}))
	require.NoError(t, err)

	_, err = c.SaveBattle(ctx, mustStruct(t, map[string]any{"battle_id": id, "slot": "../escape"}))
	assert.Equal(t, codes.InvalidArgument, codeOf(err))

	_, err = c.SaveBattle(ctx, mustStruct(t, map[string]any{"battle_id": id, "slot": "slot-1"}))
	require.NoError(t, err)

	loaded, err := c.LoadBattle(ctx, mustStruct(t, map[string]any{"slot": "slot-1"}))
	require.NoError(t, err)
	newID := loaded.GetFields()["battle_id"].GetStringValue()
	assert.NotEqual(t, id, newID)

	orig, err := c.ExecuteCpuTurn(ctx, mustStruct(t, map[string]any{"battle_id": id}))
	require.NoError(t, err)
	before := snapshotOf(t, orig).GetFields()["turn"].GetNumberValue()
	assert.Equal(t, snapshotOf(t, loaded).GetFields()["turn"].GetNumberValue()+1, before)

	_, err = c.LoadBattle(ctx, mustStruct(t, map[string]any{"slot": "missing"}))
	assert.Equal(t, codes.NotFound, codeOf(err))
}

func TestServiceDesc_MatchesProto(t *testing.T) {
	meta, ok := battleserver.ServiceDesc.Metadata.(string)
	require.True(t, ok)
	src, err := os.ReadFile(filepath.Join("../../api/proto", meta))
	require.NoError(t, err)
	proto := string(src)

	assert.Contains(t, proto, "package battlesim.v1;")
	assert.Contains(t, proto, "service BattleService {")
	assert.Equal(t, "battlesim.v1.BattleService", battleserver.ServiceName)
	for _, m := range battleserver.ServiceDesc.Methods {
		assert.Contains(t, proto, "rpc "+m.MethodName+"(google.protobuf.Struct) returns (google.protobuf.Struct);")
	}
}
