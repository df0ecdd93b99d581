package catalog

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"barkeep/internal/domain"
)

// Cache sizing. Catalog rows are immutable so the TTL only bounds memory
// after a re-seed, not staleness during normal operation.
const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 30 * time.Minute
)

// recordCache holds full catalog records by id, one LRU per kind.
type recordCache struct {
	drinks      *expirable.LRU[int, *domain.Drink]
	glasses     *expirable.LRU[int, *domain.Glass]
	ingredients *expirable.LRU[int, *domain.Ingredient]
}

func newRecordCache(size int, ttl time.Duration) *recordCache {
	return &recordCache{
		drinks:      expirable.NewLRU[int, *domain.Drink](size, nil, ttl),
		glasses:     expirable.NewLRU[int, *domain.Glass](size, nil, ttl),
		ingredients: expirable.NewLRU[int, *domain.Ingredient](size, nil, ttl),
	}
}

func (c *recordCache) getDrink(id int) (*domain.Drink, bool) { return c.drinks.Get(id) }
func (c *recordCache) putDrink(d *domain.Drink)              { c.drinks.Add(d.ID, d) }

func (c *recordCache) getGlass(id int) (*domain.Glass, bool) { return c.glasses.Get(id) }
func (c *recordCache) putGlass(g *domain.Glass)              { c.glasses.Add(g.ID, g) }

func (c *recordCache) getIngredient(id int) (*domain.Ingredient, bool) { return c.ingredients.Get(id) }
func (c *recordCache) putIngredient(i *domain.Ingredient)              { c.ingredients.Add(i.ID, i) }
