package serverapp

import (
	"context"
	"errors"
	"fmt"

	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/game"
	"spaceclicker/internal/offline"
)

var errUnknownCommand = errors.New("unknown command")

// Command is one player action, shared by the HTTP routes and the websocket feed.
type Command struct {
	Type     string  `json:"type"`
	ID       string  `json:"id,omitempty"`
	UnitID   string  `json:"unit_id,omitempty"`
	TargetID string  `json:"target_id,omitempty"`
	Amount   int     `json:"amount,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Force    bool    `json:"force,omitempty"`
}

const (
	cmdStartWave       = "start_wave"
	cmdCompleteWave    = "complete_wave"
	cmdClick           = "click"
	cmdDamage          = "damage"
	cmdPurchaseUnit    = "purchase_unit"
	cmdUpgradeUnit     = "upgrade_unit"
	cmdPurchaseCarrier = "purchase_carrier"
	cmdSwitchCarrier   = "switch_carrier"
	cmdInstall         = "install"
	cmdRemove          = "remove"
	cmdClickUpgrade    = "click_upgrade"
	cmdBuyPack         = "buy_pack"
	cmdClaimMission    = "claim_mission"
	cmdRefreshMissions = "refresh_missions"
	cmdApplyOffline    = "apply_offline"
	cmdSave            = "save"
)

type okResult struct {
	OK bool `json:"ok"`
}

type offlineResult struct {
	OK   bool         `json:"ok"`
	Gain offline.Gain `json:"gain"`
}

// dispatch runs c against the engine. Game-logic rejections come back as
// {"ok": false}; only engine and store failures are errors.
func dispatch(ctx context.Context, e *game.Engine, c Command) (any, error) {
	wrap := func(ok bool, err error) (any, error) {
		if err != nil {
			return nil, err
		}
		return okResult{OK: ok}, nil
	}

	switch c.Type {
	case cmdStartWave:
		return wrap(e.StartWave())
	case cmdCompleteWave:
		return wrap(e.CompleteWave())
	case cmdClick:
		return e.ClickAttack(c.X, c.Y)
	case cmdDamage:
		return e.ApplyDamage(c.TargetID, c.Amount)
	case cmdPurchaseUnit:
		return wrap(e.PurchaseUnit(c.ID))
	case cmdUpgradeUnit:
		return wrap(e.UpgradeUnit(c.ID))
	case cmdPurchaseCarrier:
		return wrap(e.PurchaseCarrier(c.ID))
	case cmdSwitchCarrier:
		return wrap(e.SwitchCarrier(c.ID))
	case cmdInstall:
		return wrap(e.InstallUnit(c.UnitID, c.ID))
	case cmdRemove:
		return wrap(e.RemoveUnit(c.UnitID, c.ID))
	case cmdClickUpgrade:
		return wrap(e.PurchaseClickUpgrade(arsenal.ClickUpgradeKind(c.ID)))
	case cmdBuyPack:
		return wrap(e.BuyPack(c.ID))
	case cmdClaimMission:
		return wrap(e.ClaimMission(c.ID))
	case cmdRefreshMissions:
		return wrap(e.RefreshMissions(c.Force))
	case cmdApplyOffline:
		g, err := e.ProjectOfflineGain(e.LastSeen())
		if err != nil {
			return nil, err
		}
		ok, err := e.ApplyOfflineGain(g)
		if err != nil {
			return nil, err
		}
		return offlineResult{OK: ok, Gain: g}, nil
	case cmdSave:
		return wrap(true, e.Save(ctx))
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownCommand, c.Type)
	}
}
