package app

import "github.com/dungeoncrawl/engine/internal/bus"

// RegisterAll binds every command in spec §6's command surface, plus
// the internal NextTurn/StartBattle/EndGame commands, onto b.
func RegisterAll(b *bus.Bus, deps *Deps) {
	b.RegisterCommand("CreateGame", handleCreateGame(deps))
	b.RegisterCommand("AddPlayer", handleAddPlayer(deps))
	b.RegisterCommand("StartGame", handleStartGame(deps))
	b.RegisterCommand("PickTile", handlePickTile(deps))
	b.RegisterCommand("RotateTile", handleRotateTile(deps))
	b.RegisterCommand("PlaceTile", handlePlaceTile(deps))
	b.RegisterCommand("MovePlayer", handleMovePlayer(deps))
	b.RegisterCommand("PickItem", handlePickItem(deps))
	b.RegisterCommand("UseSpell", handleUseSpell(deps))
	b.RegisterCommand("StartBattle", handleStartBattle(deps))
	b.RegisterCommand("FinalizeBattle", handleFinalizeBattle(deps))
	b.RegisterCommand("EndTurn", handleEndTurn(deps))
	b.RegisterCommand("NextTurn", handleNextTurn(deps))
	b.RegisterCommand("EndGame", handleEndGame(deps))
}
