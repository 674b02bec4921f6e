package config

import "fmt"

type ProductionSpec struct {
	Currency   string `yaml:"currency" json:"currency"`
	Amount     int    `yaml:"amount" json:"amount"`
	IntervalMS int    `yaml:"interval_ms" json:"interval_ms"`
}

type UnitSpec struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Kind        string          `yaml:"kind" json:"kind"` // "defense", "attack", "mining", "turret"
	Cost        int             `yaml:"cost" json:"cost"`
	Currency    string          `yaml:"currency" json:"currency"`
	Damage      int             `yaml:"damage" json:"damage"`
	FireRate    float64         `yaml:"fire_rate" json:"fire_rate"`
	Health      int             `yaml:"health" json:"health"`
	UnlockLevel int             `yaml:"unlock_level" json:"unlock_level"`
	Owned       bool            `yaml:"owned" json:"owned"`
	Production  *ProductionSpec `yaml:"production" json:"production,omitempty"`
}

type CarrierSpec struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Slots       int      `yaml:"slots" json:"slots"`
	Health      int      `yaml:"health" json:"health"`
	UnlockCost  int      `yaml:"unlock_cost" json:"unlock_cost"`
	Currency    string   `yaml:"currency" json:"currency"`
	UnlockLevel int      `yaml:"unlock_level" json:"unlock_level"`
	Owned       bool     `yaml:"owned" json:"owned"`
	Installed   []string `yaml:"installed" json:"installed,omitempty"`
}

// Range is an inclusive integer range used for randomized mission rolls.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

type MissionTemplate struct {
	Kind        string           `yaml:"kind" json:"kind"`
	Title       string           `yaml:"title" json:"title"`
	Description string           `yaml:"description" json:"description"`
	Target      Range            `yaml:"target" json:"target"`
	Reward      map[string]Range `yaml:"reward" json:"reward"`
	XP          Range            `yaml:"xp" json:"xp"`
}

type PackSpec struct {
	ID       string         `yaml:"id" json:"id"`
	Name     string         `yaml:"name" json:"name"`
	Currency string         `yaml:"currency" json:"currency"`
	Price    int            `yaml:"price" json:"price"`
	Grants   map[string]int `yaml:"grants" json:"grants"`
}

// Variant is one economy parameterization: currencies, catalogs and mission set.
type Variant struct {
	Name            string            `yaml:"name" json:"name"`
	PrimaryCurrency string            `yaml:"primary_currency" json:"primary_currency"`
	Currencies      []string          `yaml:"currencies" json:"currencies"`
	StartingWallet  map[string]int    `yaml:"starting_wallet" json:"starting_wallet"`
	LevelBonus      map[string]int    `yaml:"level_bonus" json:"level_bonus"`
	Units           []UnitSpec        `yaml:"units" json:"units"`
	Carriers        []CarrierSpec     `yaml:"carriers" json:"carriers"`
	ActiveCarrier   string            `yaml:"active_carrier" json:"active_carrier"`
	Missions        []MissionTemplate `yaml:"missions" json:"missions"`
	Packs           []PackSpec        `yaml:"packs" json:"packs"`
}

const (
	VariantClassic = "classic"
	VariantArsenal = "arsenal"
)

// ForVariant resolves a built-in variant by name.
func ForVariant(name string) (Variant, error) {
	switch name {
	case "", VariantClassic:
		return Classic(), nil
	case VariantArsenal:
		return Arsenal(), nil
	default:
		return Variant{}, fmt.Errorf("unknown variant: %s", name)
	}
}

// Classic is the credits/minerals/energy economy with a single mothership
// hosting level-gated ships.
func Classic() Variant {
	return Variant{
		Name:            VariantClassic,
		PrimaryCurrency: "credits",
		Currencies:      []string{"credits", "minerals", "energy"},
		StartingWallet:  map[string]int{"credits": 500, "minerals": 200, "energy": 100},
		LevelBonus:      map[string]int{"credits": 100, "minerals": 20, "energy": 20},
		Units: []UnitSpec{
			{ID: "defender-1", Name: "Defender", Kind: "defense", Cost: 500, Currency: "credits", Damage: 1, FireRate: 1.0, Health: 100},
			{ID: "cruiser-1", Name: "Cruiser", Kind: "attack", Cost: 1200, Currency: "credits", Damage: 3, FireRate: 0.8, Health: 200, UnlockLevel: 3},
			{ID: "destroyer-1", Name: "Destroyer", Kind: "attack", Cost: 3000, Currency: "credits", Damage: 5, FireRate: 1.2, Health: 350, UnlockLevel: 8},
			{ID: "miner-1", Name: "Miner", Kind: "mining", Cost: 800, Currency: "credits", Health: 80, UnlockLevel: 2,
				Production: &ProductionSpec{Currency: "minerals", Amount: 10, IntervalMS: 5000}},
			{ID: "collector-1", Name: "Collector", Kind: "mining", Cost: 800, Currency: "credits", Health: 80, UnlockLevel: 4,
				Production: &ProductionSpec{Currency: "credits", Amount: 5, IntervalMS: 3000}},
			{ID: "generator-1", Name: "Generator", Kind: "mining", Cost: 1000, Currency: "credits", Health: 80, UnlockLevel: 5,
				Production: &ProductionSpec{Currency: "energy", Amount: 5, IntervalMS: 4000}},
		},
		Carriers: []CarrierSpec{
			{ID: "mothership", Name: "Mothership", Slots: 6, Health: 500, Owned: true},
		},
		ActiveCarrier: "mothership",
		Missions: []MissionTemplate{
			{
				Kind: "kill", Title: "Destroy enemy ships", Description: "Destroy a number of enemy ships",
				Target: Range{50, 99},
				Reward: map[string]Range{"credits": {500, 799}, "minerals": {0, 199}, "energy": {100, 199}},
			},
			{
				Kind: "waveClear", Title: "Clear waves", Description: "Complete a number of attack waves",
				Target: Range{3, 7},
				Reward: map[string]Range{"credits": {800, 1199}, "minerals": {200, 349}, "energy": {0, 199}},
			},
			{
				Kind: "resourceCollect", Title: "Collect resources", Description: "Collect an amount of credits",
				Target: Range{2000, 4999},
				Reward: map[string]Range{"credits": {0, 499}, "minerals": {300, 499}, "energy": {300, 499}},
			},
			{
				Kind: "upgrade", Title: "Refit the fleet", Description: "Upgrade ships a number of times",
				Target: Range{2, 4},
				Reward: map[string]Range{"credits": {400, 699}, "energy": {50, 149}},
				XP:     Range{100, 200},
			},
		},
		Packs: []PackSpec{
			{ID: "pack1", Name: "Starter pack", Currency: "credits", Price: 0, Grants: map[string]int{"credits": 1000, "minerals": 500, "energy": 200}},
			{ID: "pack2", Name: "Advanced pack", Currency: "credits", Price: 500, Grants: map[string]int{"credits": 2000, "minerals": 1000, "energy": 500}},
			{ID: "pack3", Name: "Premium pack", Currency: "credits", Price: 2000, Grants: map[string]int{"credits": 5000, "minerals": 2500, "energy": 1200}},
		},
	}
}

// Arsenal is the coins/gems economy: turrets bought with coins, installed on
// spaceships bought with gems.
func Arsenal() Variant {
	return Variant{
		Name:            VariantArsenal,
		PrimaryCurrency: "coins",
		Currencies:      []string{"coins", "gems"},
		StartingWallet:  map[string]int{"coins": 100, "gems": 0},
		LevelBonus:      map[string]int{"coins": 50, "gems": 1},
		Units: []UnitSpec{
			{ID: "laser", Name: "Laser", Kind: "turret", Cost: 0, Currency: "coins", Damage: 1, FireRate: 2.0, Owned: true},
			{ID: "plasma", Name: "Plasma", Kind: "turret", Cost: 250, Currency: "coins", Damage: 3, FireRate: 1.0},
			{ID: "railgun", Name: "Railgun", Kind: "turret", Cost: 1500, Currency: "coins", Damage: 12, FireRate: 0.5, UnlockLevel: 5},
			{ID: "flak", Name: "Flak", Kind: "turret", Cost: 800, Currency: "coins", Damage: 2, FireRate: 3.0, UnlockLevel: 3},
		},
		Carriers: []CarrierSpec{
			{ID: "scout", Name: "Scout", Slots: 1, Health: 100, Owned: true, Installed: []string{"laser"}},
			{ID: "frigate", Name: "Frigate", Slots: 2, Health: 250, UnlockCost: 10, Currency: "gems", UnlockLevel: 2},
			{ID: "dreadnought", Name: "Dreadnought", Slots: 4, Health: 600, UnlockCost: 40, Currency: "gems", UnlockLevel: 6},
		},
		ActiveCarrier: "scout",
		Missions: []MissionTemplate{
			{
				Kind: "kill", Title: "Hunter", Description: "Destroy enemies",
				Target: Range{40, 80},
				Reward: map[string]Range{"coins": {300, 600}, "gems": {1, 3}},
			},
			{
				Kind: "waveClear", Title: "Holdout", Description: "Clear waves",
				Target: Range{3, 6},
				Reward: map[string]Range{"coins": {400, 800}, "gems": {2, 4}},
				XP:     Range{200, 300},
			},
			{
				Kind: "resourceCollect", Title: "Prospector", Description: "Collect coins",
				Target: Range{1500, 3000},
				Reward: map[string]Range{"gems": {3, 5}},
			},
			{
				Kind: "upgrade", Title: "Tinkerer", Description: "Upgrade turrets",
				Target: Range{1, 3},
				Reward: map[string]Range{"coins": {200, 400}},
			},
		},
		Packs: []PackSpec{
			{ID: "gem-cache", Name: "Gem cache", Currency: "coins", Price: 1000, Grants: map[string]int{"gems": 5}},
		},
	}
}
