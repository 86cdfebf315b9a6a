package catalog

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// EffectType says which stat an upgrade improves when purchased.
type EffectType string

const (
	EffectClick   EffectType = "click"
	EffectPassive EffectType = "passive"
)

// Upgrade is an immutable catalog template. Purchase progress lives in the
// game state, keyed by ID, never on the template itself.
type Upgrade struct {
	ID             string     `yaml:"id" json:"id"`
	Name           string     `yaml:"name" json:"name"`
	Description    string     `yaml:"description" json:"description"`
	Icon           string     `yaml:"icon" json:"icon"`
	BaseCost       float64    `yaml:"base_cost" json:"baseCost"`
	CostMultiplier float64    `yaml:"cost_multiplier" json:"costMultiplier"`
	EffectValue    float64    `yaml:"effect_value" json:"effectValue"`
	EffectType     EffectType `yaml:"effect_type" json:"effectType"`
}

// CostAt returns the purchase price once the upgrade has been bought count
// times: floor(baseCost * costMultiplier^count). Strictly increasing for
// any valid multiplier (> 1).
func (u Upgrade) CostAt(count int) float64 {
	return math.Floor(u.BaseCost * math.Pow(u.CostMultiplier, float64(count)))
}

// Catalog is an ordered, fixed set of upgrade templates.
type Catalog struct {
	upgrades []Upgrade
	byID     map[string]int
}

func New(upgrades []Upgrade) (*Catalog, error) {
	c := &Catalog{
		upgrades: make([]Upgrade, len(upgrades)),
		byID:     make(map[string]int, len(upgrades)),
	}
	copy(c.upgrades, upgrades)
	for i, u := range c.upgrades {
		if u.ID == "" {
			return nil, fmt.Errorf("upgrade %d: missing id", i)
		}
		if _, dup := c.byID[u.ID]; dup {
			return nil, fmt.Errorf("upgrade %q: duplicate id", u.ID)
		}
		if u.BaseCost <= 0 {
			return nil, fmt.Errorf("upgrade %q: base cost must be positive", u.ID)
		}
		if u.CostMultiplier <= 1 {
			return nil, fmt.Errorf("upgrade %q: cost multiplier must exceed 1", u.ID)
		}
		if u.EffectValue <= 0 {
			return nil, fmt.Errorf("upgrade %q: effect value must be positive", u.ID)
		}
		if u.EffectType != EffectClick && u.EffectType != EffectPassive {
			return nil, fmt.Errorf("upgrade %q: unknown effect type %q", u.ID, u.EffectType)
		}
		c.byID[u.ID] = i
	}
	return c, nil
}

// Default returns the stock six-upgrade catalog.
func Default() *Catalog {
	c, err := New(defaultUpgrades)
	if err != nil {
		panic(err) // defaults are validated by tests
	}
	return c
}

// LoadFile reads a catalog override from a yaml file.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Upgrades []Upgrade `yaml:"upgrades"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(doc.Upgrades) == 0 {
		return nil, fmt.Errorf("catalog %s: no upgrades", path)
	}
	return New(doc.Upgrades)
}

// Get looks an upgrade up by id.
func (c *Catalog) Get(id string) (Upgrade, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Upgrade{}, false
	}
	return c.upgrades[i], true
}

// All returns the templates in catalog order.
func (c *Catalog) All() []Upgrade {
	out := make([]Upgrade, len(c.upgrades))
	copy(out, c.upgrades)
	return out
}

func (c *Catalog) Len() int { return len(c.upgrades) }

var defaultUpgrades = []Upgrade{
	{
		ID:             "reply-guy",
		Name:           "Reply Guy",
		Description:    `Spams "This is the ticker" under every Elon tweet.`,
		Icon:           "message",
		BaseCost:       15,
		CostMultiplier: 1.5,
		EffectValue:    1,
		EffectType:     EffectPassive,
	},
	{
		ID:             "meme-generator",
		Name:           "Meme Factory",
		Description:    "Cooking up fresh memes for the timeline 24/7.",
		Icon:           "image",
		BaseCost:       100,
		CostMultiplier: 1.4,
		EffectValue:    5,
		EffectType:     EffectPassive,
	},
	{
		ID:             "diamond-hands",
		Name:           "Diamond Hands",
		Description:    "Fingers physically unable to click the sell button.",
		Icon:           "zap",
		BaseCost:       250,
		CostMultiplier: 1.6,
		EffectValue:    3,
		EffectType:     EffectClick,
	},
	{
		ID:             "chad-holder",
		Name:           "Chad Holder",
		Description:    "Buys the top, never sells. A true believer.",
		Icon:           "user",
		BaseCost:       1000,
		CostMultiplier: 1.5,
		EffectValue:    25,
		EffectType:     EffectPassive,
	},
	{
		ID:             "based-dev",
		Name:           "Based Dev",
		Description:    "Dev is actually working and not sleeping.",
		Icon:           "rocket",
		BaseCost:       5000,
		CostMultiplier: 1.7,
		EffectValue:    100,
		EffectType:     EffectPassive,
	},
	{
		ID:             "organic-growth",
		Name:           "Organic Growth",
		Description:    "No paid marketing, just pure vibes and community.",
		Icon:           "leaf",
		BaseCost:       20000,
		CostMultiplier: 1.8,
		EffectValue:    500,
		EffectType:     EffectPassive,
	},
}
