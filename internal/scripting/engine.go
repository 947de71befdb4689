package scripting

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/data"
)

// Engine wraps a single gopher-lua VM for arena rules that designers tune
// without a rebuild. Single-goroutine access only (game loop).
type Engine struct {
	vm       *lua.LState
	rng      *rand.Rand
	kinds    *lua.LTable
	fallback string
	log      *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under scriptsDir.
// rng backs arena.random() so seeded runs stay reproducible.
func NewEngine(scriptsDir string, rng *rand.Rand, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, rng: rng, kinds: vm.NewTable(), log: log}
	e.registerAPI()

	for _, sub := range []string{"core", "collectables", "announcer"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// registerAPI exposes the arena table to scripts.
func (e *Engine) registerAPI() {
	api := e.vm.NewTable()
	e.vm.SetField(api, "random", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(e.rng.Float64()))
		return 1
	}))
	e.vm.SetField(api, "log", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	e.vm.SetGlobal("arena", api)
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
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

// SetCollectableKinds publishes the kind table scripts choose from. The
// first kind doubles as the fallback when a script fails.
func (e *Engine) SetCollectableKinds(kinds []data.CollectableKind) {
	t := e.vm.NewTable()
	for _, k := range kinds {
		row := e.vm.NewTable()
		row.RawSetString("name", lua.LString(k.Name))
		row.RawSetString("weight", lua.LNumber(k.Weight))
		t.Append(row)
	}
	e.kinds = t
	if len(kinds) > 0 {
		e.fallback = kinds[0].Name
	}
}

// ChooseCollectable calls the Lua choose_collectable function.
func (e *Engine) ChooseCollectable() string {
	fn := e.vm.GetGlobal("choose_collectable")
	if fn == lua.LNil {
		e.log.Error("lua function choose_collectable not found")
		return e.fallback
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, e.kinds); err != nil {
		e.log.Error("lua choose_collectable error", zap.Error(err))
		return e.fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	name, ok := result.(lua.LString)
	if !ok || name == "" {
		e.log.Error("lua choose_collectable returned non-string", zap.String("type", result.Type().String()))
		return e.fallback
	}
	return string(name)
}

// InsultContext is what insult_line sees about the player who just died.
type InsultContext struct {
	PlayerID int
	Name     string
	Deaths   int
}

// InsultLine calls the Lua insult_line function. Empty means stay quiet.
func (e *Engine) InsultLine(ctx InsultContext) string {
	fn := e.vm.GetGlobal("insult_line")
	if fn == lua.LNil {
		e.log.Error("lua function insult_line not found")
		return ""
	}

	t := e.vm.NewTable()
	t.RawSetString("player", lua.LNumber(ctx.PlayerID))
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("deaths", lua.LNumber(ctx.Deaths))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua insult_line error", zap.Error(err))
		return ""
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if result == lua.LNil {
		return ""
	}
	return lua.LVAsString(result)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
