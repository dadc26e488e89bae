package turn

import (
	"testing"
	"time"
)

func TestAutoEndsAtBudgetWithoutBattle(t *testing.T) {
	tu := New("t1", "g1", "p1")
	now := time.Now()
	for i := 0; i < 3; i++ {
		if ended, err := tu.RecordAction(ActionMove, "", nil, now); err != nil || ended {
			t.Fatalf("action %d: ended=%v err=%v", i, ended, err)
		}
	}
	ended, err := tu.RecordAction(ActionMove, "", nil, now)
	if err != nil {
		t.Fatal(err)
	}
	if !ended {
		t.Fatal("expected auto-end at 4th counted action")
	}
	if !tu.Ended() {
		t.Fatal("turn should be marked ended")
	}
}

func TestBattleDisablesAutoEnd(t *testing.T) {
	tu := New("t1", "g1", "p1")
	now := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := tu.RecordAction(ActionMove, "", nil, now); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tu.RecordAction(ActionFightMonster, "", nil, now); err != nil {
		t.Fatal(err)
	}
	if tu.Ended() {
		t.Fatal("battle should not end the turn even past the action budget")
	}
	ended, err := tu.RecordAction(ActionPickItem, "", nil, now)
	if err != nil {
		t.Fatal(err)
	}
	if ended {
		t.Fatal("PICK_ITEM after FIGHT_MONSTER should not itself auto-end")
	}
}

func TestFightMonsterOnlyAllowsPickItemOrEndTurn(t *testing.T) {
	tu := New("t1", "g1", "p1")
	now := time.Now()
	if _, err := tu.RecordAction(ActionFightMonster, "", nil, now); err != nil {
		t.Fatal(err)
	}
	if _, err := tu.RecordAction(ActionMove, "", nil, now); err == nil {
		t.Fatal("expected InvalidTurnAction after FIGHT_MONSTER")
	}
}

func TestRecordActionAfterEndedFails(t *testing.T) {
	tu := New("t1", "g1", "p1")
	now := time.Now()
	if _, err := tu.RecordAction(ActionEndTurn, "", nil, now); err != nil {
		t.Fatal(err)
	}
	if _, err := tu.RecordAction(ActionMove, "", nil, now); err == nil {
		t.Fatal("expected TurnAlreadyEnded")
	}
}
