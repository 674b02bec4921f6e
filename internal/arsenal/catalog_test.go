package arsenal

import (
	"testing"

	"spaceclicker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classic() Catalog {
	return NewCatalog(config.Classic(), config.Default())
}

func TestNewCatalog_LevelGates(t *testing.T) {
	c := classic()

	defender, ok := c.Unit("defender-1")
	require.True(t, ok)
	assert.True(t, defender.Unlocked)
	assert.False(t, defender.Owned)
	assert.Equal(t, 750, defender.UpgradeCost)

	cruiser, _ := c.Unit("cruiser-1")
	assert.False(t, cruiser.Unlocked)

	changed := c.UnlockForLevel(3)
	assert.ElementsMatch(t, []string{"cruiser-1", "miner-1"}, changed)
	assert.Empty(t, c.UnlockForLevel(3))
}

func TestInstall_CapacityAndDuplicates(t *testing.T) {
	v := config.Arsenal()
	v.Carriers[0].Slots = 2
	c := NewCatalog(v, config.Default())
	for i := range c.Units {
		c.Units[i].Unlocked = true
		c.Units[i].Owned = true
	}

	assert.False(t, c.Install("laser", "scout"), "duplicate install")
	assert.True(t, c.Install("plasma", "scout"))

	before, _ := c.Carrier("scout")
	installed := append([]string{}, before.Installed...)
	assert.False(t, c.Install("flak", "scout"), "carrier full")

	after, _ := c.Carrier("scout")
	assert.Equal(t, installed, after.Installed)
}

func TestInstall_RequiresOwnedUnitAndCarrier(t *testing.T) {
	c := NewCatalog(config.Arsenal(), config.Default())

	assert.False(t, c.Install("plasma", "scout"), "unit not owned")
	assert.False(t, c.Install("laser", "frigate"), "carrier not owned")
	assert.False(t, c.Install("nope", "scout"))
}

func TestActiveUnits_DerivedFromInstalledIDs(t *testing.T) {
	c := NewCatalog(config.Arsenal(), config.Default())
	units := c.ActiveUnits()
	require.Len(t, units, 1)
	assert.Equal(t, "laser", units[0].ID)

	assert.True(t, c.Remove("laser", "scout"))
	assert.False(t, c.Remove("laser", "scout"))
	assert.Empty(t, c.ActiveUnits())
	assert.Equal(t, 7, c.StrongestDamage(7))
}

func TestUpgrade_StatGrowth(t *testing.T) {
	c := classic()
	u, _ := c.Unit("destroyer-1")
	g := GrowthFromBalance(config.Default())

	cost := u.UpgradeCost
	u.Upgrade(g)

	assert.Equal(t, 2, u.Level)
	assert.Equal(t, 6, u.Damage)
	assert.Equal(t, 1.32, u.FireRate)
	assert.Equal(t, 420, u.Health)
	assert.Equal(t, ceil(float64(cost)*1.5), u.UpgradeCost)

	miner, _ := c.Unit("miner-1")
	miner.Upgrade(g)
	assert.Equal(t, 13, miner.Production.Amount)
}

func TestClone_IsDeep(t *testing.T) {
	c := NewCatalog(config.Arsenal(), config.Default())
	cp := c.Clone()

	cr, _ := cp.Carrier("scout")
	cr.Installed[0] = "changed"

	orig, _ := c.Carrier("scout")
	assert.Equal(t, "laser", orig.Installed[0])
}

func TestSwitch(t *testing.T) {
	c := NewCatalog(config.Arsenal(), config.Default())
	assert.False(t, c.Switch("frigate"))
	f, _ := c.Carrier("frigate")
	f.Owned = true
	assert.True(t, c.Switch("frigate"))
	assert.False(t, c.Switch("frigate"))
	assert.Equal(t, "frigate", c.ActiveCarrier)
}

func TestClickUpgrades_CostsAndEffects(t *testing.T) {
	b := config.Default()
	c := NewClickUpgrades()

	cost, ok := c.Cost(ClickDamage, b)
	require.True(t, ok)
	assert.Equal(t, 200, cost)
	c.Apply(ClickDamage, b)
	cost, _ = c.Cost(ClickDamage, b)
	assert.Equal(t, 400, cost)

	cost, _ = c.Cost(ClickMultiplier, b)
	assert.Equal(t, 500, cost)
	c.Apply(ClickMultiplier, b)
	assert.Equal(t, 1.1, c.Multiplier)
	cost, _ = c.Cost(ClickMultiplier, b)
	assert.Equal(t, 550, cost)

	cost, _ = c.Cost(AutoClicker, b)
	assert.Equal(t, 300, cost)

	_, ok = c.Cost("nope", b)
	assert.False(t, ok)

	assert.Equal(t, 11, c.DamageFor(10))
	assert.Equal(t, 1, c.DamageFor(0))
}
