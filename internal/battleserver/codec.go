package battleserver

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/battle"
	"github.com/cory-johannsen/battlesim/internal/game/lineup"
)

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", invalid("missing field %q", name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || str.StringValue == "" {
		return "", invalid("field %q must be a non-empty string", name)
	}
	return str.StringValue, nil
}

func optString(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func intField(s *structpb.Struct, name string) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, invalid("missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, invalid("field %q must be a number", name)
	}
	if n.NumberValue != float64(int(n.NumberValue)) {
		return 0, invalid("field %q must be an integer", name)
	}
	return int(n.NumberValue), nil
}

func structField(s *structpb.Struct, name string) (*structpb.Struct, error) {
	v, ok := s.GetFields()[name]
	if !ok || v.GetStructValue() == nil {
		return nil, invalid("field %q must be an object", name)
	}
	return v.GetStructValue(), nil
}

// trainerSpec decodes {name, color?, strategy?, team: [{species, nickname?}], items?: [name]}.
func trainerSpec(req *structpb.Struct, field string) (lineup.Trainer, error) {
	s, err := structField(req, field)
	if err != nil {
		return lineup.Trainer{}, err
	}
	name, err := stringField(s, "name")
	if err != nil {
		return lineup.Trainer{}, err
	}
	t := lineup.Trainer{Name: name, Color: optString(s, "color"), Strategy: optString(s, "strategy")}
	for i, v := range s.GetFields()["team"].GetListValue().GetValues() {
		m := v.GetStructValue()
		if m == nil {
			return lineup.Trainer{}, invalid("%s.team[%d] must be an object", field, i)
		}
		species, err := stringField(m, "species")
		if err != nil {
			return lineup.Trainer{}, err
		}
		t.Team = append(t.Team, lineup.Member{Species: species, Nickname: optString(m, "nickname")})
	}
	for i, v := range s.GetFields()["items"].GetListValue().GetValues() {
		name := v.GetStringValue()
		if name == "" {
			return lineup.Trainer{}, invalid("%s.items[%d] must be a non-empty string", field, i)
		}
		t.Items = append(t.Items, name)
	}
	return t, nil
}

// actionOf decodes {action: {kind, move? | item?, target? | target?}}.
// Indices are 0-based, matching the engine.
func actionOf(req *structpb.Struct) (action.Action, error) {
	a, err := structField(req, "action")
	if err != nil {
		return nil, err
	}
	kind, err := stringField(a, "kind")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "attack":
		n, err := intField(a, "move")
		if err != nil {
			return nil, err
		}
		return action.Attack{MoveIndex: n}, nil
	case "struggle":
		return action.Struggle(), nil
	case "item":
		item, err := intField(a, "item")
		if err != nil {
			return nil, err
		}
		target, err := intField(a, "target")
		if err != nil {
			return nil, err
		}
		return action.UseItem{ItemIndex: item, TargetIndex: target}, nil
	case "switch":
		target, err := intField(a, "target")
		if err != nil {
			return nil, err
		}
		return action.Switch{TargetIndex: target}, nil
	}
	return nil, invalid("unknown action kind %q", kind)
}

func activeValue(v *battle.ActiveView) any {
	if v == nil {
		return nil
	}
	return map[string]any{
		"name":   v.Name,
		"type":   v.Type,
		"hp":     v.HP,
		"max_hp": v.MaxHP,
		"status": v.Status,
	}
}

func snapshotValue(s battle.Snapshot) (*structpb.Value, error) {
	events := make([]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = e
	}
	return structpb.NewValue(map[string]any{
		"player1_name":   s.Player1Name,
		"player2_name":   s.Player2Name,
		"player1_active": activeValue(s.Player1Active),
		"player2_active": activeValue(s.Player2Active),
		"current_player": s.CurrentPlayer,
		"is_human_turn":  s.IsHumanTurn,
		"climate":        s.Climate,
		"climate_turns":  s.ClimateTurns,
		"turn":           s.Turn,
		"state":          s.State,
		"events":         events,
	})
}
