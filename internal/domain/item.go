package domain

// ItemKind tags the three catalog families. Store, validation and delta
// operations are written once over a kind instead of three parallel paths.
type ItemKind string

const (
	KindDrink      ItemKind = "drink"
	KindGlass      ItemKind = "glass"
	KindIngredient ItemKind = "ingredient"
)

// Kinds returns every item kind in canonical order (ingredients first,
// matching inventory display order).
func Kinds() [3]ItemKind {
	return [3]ItemKind{KindIngredient, KindDrink, KindGlass}
}

// ParseItemKind maps the short and long token forms used in trade strings
// to an ItemKind. Unknown tokens return false.
func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "d", "drink":
		return KindDrink, true
	case "g", "glass":
		return KindGlass, true
	case "i", "ingredient":
		return KindIngredient, true
	}
	return "", false
}

// Drink is an immutable catalog record. GlassID references the glass the
// drink is served in; the ingredient associations live in DrinkIngredient.
type Drink struct {
	ID            int    `json:"drink_id" db:"drink_id"`
	Name          string `json:"name" db:"name"`
	NameAlternate string `json:"name_alternate,omitempty" db:"name_alternate"`
	Tags          string `json:"tags,omitempty" db:"tags"`
	Category      string `json:"category,omitempty" db:"category"`
	Alcoholic     bool   `json:"alcoholic" db:"alcoholic"`
	GlassID       int    `json:"glass_id" db:"glass_id"`
	Instructions  string `json:"instructions,omitempty" db:"instructions"`
	Thumbnail     string `json:"thumbnail,omitempty" db:"thumbnail"`
}

// Glass is an immutable catalog record.
type Glass struct {
	ID   int    `json:"glass_id" db:"glass_id"`
	Name string `json:"name" db:"name"`
}

// Ingredient is an immutable catalog record.
type Ingredient struct {
	ID          int    `json:"ingredient_id" db:"ingredient_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Type        string `json:"ingredient_type,omitempty" db:"ingredient_type"`
	Alcohol     bool   `json:"alcohol" db:"alcohol"`
}

// DrinkIngredient is one required ingredient of a drink together with the
// free-text measure from the recipe. One unit is consumed per craft
// regardless of measure.
type DrinkIngredient struct {
	Ingredient
	Measure string `json:"measure,omitempty" db:"measure"`
}

// CatalogItem is the uniform {kind, id, name} view of any catalog record,
// used wherever an operation is generic over kind (resolution, trade,
// rolls). Full records are fetched per kind when needed.
type CatalogItem struct {
	Kind ItemKind `json:"kind"`
	ID   int      `json:"id"`
	Name string   `json:"name"`
}

// User is a registered player. Users are upserted on first interaction and
// the username refreshes on every one.
type User struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
}
