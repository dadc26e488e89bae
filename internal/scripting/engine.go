// Package scripting provides optional Lua house-rule hooks: a combat
// damage modifier and a tile-feature effect modifier. A deployment
// that ships no scripts gets exactly the rulebook's numbers; one that
// drops a .lua file into the configured directory can adjust damage
// or feature behavior without a recompile.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only:
// callers must not share an Engine across concurrently dispatched
// commands without external synchronization.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file under the
// combat/ and tile/ subdirectories of scriptsDir. Missing directories
// are not an error; house rules are opt-in.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if scriptsDir == "" {
		return e, nil
	}
	for _, sub := range []string{"combat", "tile"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// BattleDamageContext is the pre-packed input to a house-rule damage hook.
type BattleDamageContext struct {
	Dice1          int
	Dice2          int
	WeaponDamage   int
	ConsumableBonus int
	MonsterName    string
	MonsterGuardHP int
}

// AdjustBattleDamage calls the Lua global adjust_battle_damage, if
// defined, to modify the engine-computed total before the outcome is
// decided. Returns the unmodified total when no hook is installed.
func (e *Engine) AdjustBattleDamage(ctx BattleDamageContext, total int) int {
	if e.vm.GetGlobal("adjust_battle_damage") == lua.LNil {
		return total
	}
	arg := e.vm.NewTable()
	arg.RawSetString("dice1", lua.LNumber(ctx.Dice1))
	arg.RawSetString("dice2", lua.LNumber(ctx.Dice2))
	arg.RawSetString("weapon_damage", lua.LNumber(ctx.WeaponDamage))
	arg.RawSetString("consumable_bonus", lua.LNumber(ctx.ConsumableBonus))
	arg.RawSetString("monster_name", lua.LString(ctx.MonsterName))
	arg.RawSetString("monster_guard_hp", lua.LNumber(ctx.MonsterGuardHP))
	arg.RawSetString("total", lua.LNumber(total))

	if err := e.vm.CallByParam(lua.P{Fn: e.vm.GetGlobal("adjust_battle_damage"), NRet: 1, Protect: true}, arg); err != nil {
		e.log.Warn("adjust_battle_damage failed, using engine total", zap.Error(err))
		return total
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	if n, ok := ret.(lua.LNumber); ok {
		return int(n)
	}
	return total
}

// TileFeatureContext is the pre-packed input to a house-rule tile
// feature hook (e.g. a custom fountain heal amount).
type TileFeatureContext struct {
	Feature string
	MaxHP   int
	HP      int
}

// TileFeatureResult carries the hook's override, if any.
type TileFeatureResult struct {
	NewHP     int
	Overridden bool
}

// AdjustTileFeature calls the Lua global adjust_tile_feature, if
// defined, to let a house rule override the HP a feature sets
// (defaults to the engine's HEALING_FOUNTAIN→MaxHP rule otherwise).
func (e *Engine) AdjustTileFeature(ctx TileFeatureContext) TileFeatureResult {
	if e.vm.GetGlobal("adjust_tile_feature") == lua.LNil {
		return TileFeatureResult{}
	}
	arg := e.vm.NewTable()
	arg.RawSetString("feature", lua.LString(ctx.Feature))
	arg.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))
	arg.RawSetString("hp", lua.LNumber(ctx.HP))

	if err := e.vm.CallByParam(lua.P{Fn: e.vm.GetGlobal("adjust_tile_feature"), NRet: 1, Protect: true}, arg); err != nil {
		e.log.Warn("adjust_tile_feature failed, using engine default", zap.Error(err))
		return TileFeatureResult{}
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	if n, ok := ret.(lua.LNumber); ok {
		return TileFeatureResult{NewHP: int(n), Overridden: true}
	}
	return TileFeatureResult{}
}

// Close releases the underlying Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
