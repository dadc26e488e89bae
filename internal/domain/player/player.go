// Package player implements HP, inventory, and the stun state machine
// (spec §3 "Player", §4.7).
package player

import (
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/errs"
	"github.com/dungeoncrawl/engine/internal/rulebook"
)

// Player is one participant's per-game aggregate.
type Player struct {
	ID         string
	GameID     string
	ExternalID string
	Username   string
	Wallet     string
	HP         int
	MaxHP      int
	Defeated   bool
	Inventory  []model.Item
}

// New creates a player at full HP with the given MaxHP. A per-player
// starting-HP override from the deterministic seam (spec §6) is applied
// by the caller to HP only.
func New(id, gameID string, maxHP int) *Player {
	return &Player{ID: id, GameID: gameID, HP: maxHP, MaxHP: maxHP}
}

func (p *Player) itemsIn(cat model.Category) []model.Item {
	var out []model.Item
	for _, it := range p.Inventory {
		if it.Category() == cat {
			out = append(out, it)
		}
	}
	return out
}

func (p *Player) removeByID(id string) (model.Item, bool) {
	for i, it := range p.Inventory {
		if it.ID == id {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return it, true
		}
	}
	return model.Item{}, false
}

// HasKey reports whether the player carries any KEY item.
func (p *Player) HasKey() bool {
	return len(p.itemsIn(model.CategoryKey)) > 0
}

// WeaponDamage sums the flat damage bonus of every equipped weapon.
func (p *Player) WeaponDamage() int {
	total := 0
	for _, it := range p.itemsIn(model.CategoryWeapon) {
		total += model.WeaponDamage(it.Type)
	}
	return total
}

// AvailableConsumables lists spells usable as a battle consumable
// (damaging FIREBALL or escape-relevant TELEPORT), per spec §4.6.
func (p *Player) AvailableConsumables() []model.Item {
	var out []model.Item
	for _, it := range p.itemsIn(model.CategorySpell) {
		if it.Type == model.ItemFireball || it.Type == model.ItemTeleport {
			out = append(out, it)
		}
	}
	return out
}

// AddItem adds item to inventory, enforcing the rulebook's per-category
// cap. If the category is full and replaceID is empty, returns
// InventoryFull carrying the context the client needs to retry with a
// replacement (spec §4.7). If replaceID names a held item, it is
// dropped in favor of the new one and returned to the caller to place
// back on the field.
func (p *Player) AddItem(item model.Item, caps rulebook.InventoryCaps, replaceID string) (replaced *model.Item, err error) {
	cap := caps.CapFor(item.Category())
	if cap >= 0 && len(p.itemsIn(item.Category())) >= cap {
		if replaceID == "" {
			current := p.itemsIn(item.Category())
			names := make([]string, 0, len(current))
			for _, it := range current {
				names = append(names, it.ID)
			}
			return nil, errs.NewInventoryFull(errs.InventoryFullDetail{
				Category:      string(item.Category()),
				Cap:           cap,
				CurrentItems:  names,
				CandidateItem: item.ID,
			})
		}
		dropped, ok := p.removeByID(replaceID)
		if !ok {
			return nil, errs.NewInventoryFull(errs.InventoryFullDetail{
				Category: string(item.Category()), Cap: cap, CandidateItem: item.ID,
			})
		}
		replaced = &dropped
	}
	p.Inventory = append(p.Inventory, item)
	return replaced, nil
}

// RequireKeyFor validates a chest-type pickup carries a key, per spec §4.7.
func (p *Player) RequireKeyFor(itemType model.ItemType) error {
	if itemType != model.ItemChest && itemType != model.ItemRubyChest {
		return nil
	}
	if !p.HasKey() {
		return errs.NewMissingKey(string(itemType))
	}
	return nil
}

// ReduceHP clamps HP at 0 and reports whether this reduction stunned
// the player (HP reached 0), per spec §4.7.
func (p *Player) ReduceHP(amount int) (stunned bool) {
	p.HP -= amount
	if p.HP <= 0 {
		p.HP = 0
		p.Defeated = true
		return true
	}
	return false
}

// Heal restores HP to MaxHP (fountain entry or HEALING spell).
func (p *Player) Heal() {
	p.HP = p.MaxHP
	p.Defeated = false
}

// RegenerateToOne is applied by Game when a stunned player's turn comes
// up again: HP is set to 1 and that turn is then immediately ended.
func (p *Player) RegenerateToOne() {
	p.HP = 1
	p.Defeated = false
}

// UseSpell consumes a non-battle spell (HEALING or TELEPORT), per spec
// §4.7. FIREBALL is never used through this path; it is only selected
// as a battle consumable.
func (p *Player) UseSpell(spellID string) (model.ItemType, error) {
	it, ok := p.removeByID(spellID)
	if !ok || it.Category() != model.CategorySpell {
		return "", errs.ErrInvalidTurnAction
	}
	if it.Type == model.ItemFireball {
		p.Inventory = append(p.Inventory, it) // not usable here; put it back
		return "", errs.ErrInvalidTurnAction
	}
	if it.Type == model.ItemHealing {
		p.Heal()
	}
	return it.Type, nil
}

// RemoveConsumables removes the named battle consumables from
// inventory and returns their combined damage bonus (FIREBALL only;
// TELEPORT selected mid-battle has no damage effect here).
func (p *Player) RemoveConsumables(ids []string) (damageBonus int) {
	for _, id := range ids {
		it, ok := p.removeByID(id)
		if !ok {
			continue
		}
		if it.Type == model.ItemFireball {
			damageBonus++
		}
	}
	return damageBonus
}

// Treasures lists held treasure-category items, for scoring.
func (p *Player) Treasures() []model.Item {
	return p.itemsIn(model.CategoryTreasure)
}
