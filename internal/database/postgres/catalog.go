package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"barkeep/internal/domain"
)

const drinkColumns = `d.drink_id, d.name, COALESCE(d.name_alternate, ''), COALESCE(d.tags, ''),
	COALESCE(d.category, ''), d.alcoholic, d.glass_id, COALESCE(d.instructions, ''), COALESCE(d.thumbnail, '')`

// CatalogRepository implements read-only catalog access for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetItemByID looks up the uniform {kind, id, name} view of a catalog row.
// Returns nil when the row does not exist.
func (r *CatalogRepository) GetItemByID(ctx context.Context, kind domain.ItemKind, id int) (*domain.CatalogItem, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s, name FROM %s WHERE %s = $1`, spec.idColumn, spec.catalogTable, spec.idColumn)

	item := domain.CatalogItem{Kind: kind}
	err = r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s by id: %w", kind, err)
	}
	return &item, nil
}

// FindItemsByName performs a case-insensitive substring match, ordered by name.
func (r *CatalogRepository) FindItemsByName(ctx context.Context, kind domain.ItemKind, name string) ([]domain.CatalogItem, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s, name FROM %s WHERE name ILIKE '%%' || $1 || '%%' ORDER BY name`,
		spec.idColumn, spec.catalogTable)

	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s by name: %w", kind, err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		item := domain.CatalogItem{Kind: kind}
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", kind, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetRandomItem returns a uniformly random catalog row of the given kind,
// or nil when the table is empty.
func (r *CatalogRepository) GetRandomItem(ctx context.Context, kind domain.ItemKind) (*domain.CatalogItem, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s, name FROM %s ORDER BY RANDOM() LIMIT 1`, spec.idColumn, spec.catalogTable)

	item := domain.CatalogItem{Kind: kind}
	err = r.db.QueryRow(ctx, query).Scan(&item.ID, &item.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get random %s: %w", kind, err)
	}
	return &item, nil
}

// GetDrink returns the full drink record, or nil when absent.
func (r *CatalogRepository) GetDrink(ctx context.Context, id int) (*domain.Drink, error) {
	query := fmt.Sprintf(`SELECT %s FROM drinks AS d WHERE d.drink_id = $1`, drinkColumns)

	var d domain.Drink
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.NameAlternate, &d.Tags, &d.Category,
		&d.Alcoholic, &d.GlassID, &d.Instructions, &d.Thumbnail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get drink: %w", err)
	}
	return &d, nil
}

// GetGlass returns the full glass record, or nil when absent.
func (r *CatalogRepository) GetGlass(ctx context.Context, id int) (*domain.Glass, error) {
	var g domain.Glass
	err := r.db.QueryRow(ctx, `SELECT glass_id, name FROM glasses WHERE glass_id = $1`, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get glass: %w", err)
	}
	return &g, nil
}

// GetIngredient returns the full ingredient record, or nil when absent.
func (r *CatalogRepository) GetIngredient(ctx context.Context, id int) (*domain.Ingredient, error) {
	query := `
		SELECT ingredient_id, name, COALESCE(description, ''), COALESCE(ingredient_type, ''), alcohol
		FROM ingredients
		WHERE ingredient_id = $1
	`

	var ing domain.Ingredient
	err := r.db.QueryRow(ctx, query, id).Scan(&ing.ID, &ing.Name, &ing.Description, &ing.Type, &ing.Alcohol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

// GetDrinkIngredients returns the drink's required ingredients with measures.
func (r *CatalogRepository) GetDrinkIngredients(ctx context.Context, drinkID int) ([]domain.DrinkIngredient, error) {
	query := `
		SELECT i.ingredient_id, i.name, COALESCE(i.description, ''), COALESCE(i.ingredient_type, ''),
			i.alcohol, COALESCE(di.measure, '')
		FROM drink_ingredients AS di
		JOIN ingredients AS i ON di.ingredient_id = i.ingredient_id
		WHERE di.drink_id = $1
	`

	rows, err := r.db.Query(ctx, query, drinkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get drink ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []domain.DrinkIngredient
	for rows.Next() {
		var di domain.DrinkIngredient
		if err := rows.Scan(&di.ID, &di.Name, &di.Description, &di.Type, &di.Alcohol, &di.Measure); err != nil {
			return nil, fmt.Errorf("failed to scan drink ingredient: %w", err)
		}
		ingredients = append(ingredients, di)
	}
	return ingredients, rows.Err()
}

// SearchDrinks filters drinks by optional name substring, optional glass and
// a required-ingredient subset. Ingredient filtering is set containment: a
// drink matches when its ingredient set covers every filter id.
func (r *CatalogRepository) SearchDrinks(ctx context.Context, name string, ingredientIDs []int, glassID int) ([]domain.Drink, error) {
	var (
		sb   strings.Builder
		args []any
	)

	fmt.Fprintf(&sb, "SELECT %s FROM drinks AS d\n", drinkColumns)

	if len(ingredientIDs) > 0 {
		placeholders := make([]string, len(ingredientIDs))
		for i, id := range ingredientIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		fmt.Fprintf(&sb, "JOIN drink_ingredients AS di ON di.drink_id = d.drink_id AND di.ingredient_id IN (%s)\n",
			strings.Join(placeholders, ", "))
	}

	var conds []string
	if name != "" {
		args = append(args, name)
		conds = append(conds, fmt.Sprintf("d.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if glassID > 0 {
		args = append(args, glassID)
		conds = append(conds, fmt.Sprintf("d.glass_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		fmt.Fprintf(&sb, "WHERE %s\n", strings.Join(conds, " AND "))
	}

	sb.WriteString("GROUP BY d.drink_id\n")
	if len(ingredientIDs) > 0 {
		args = append(args, len(ingredientIDs))
		fmt.Fprintf(&sb, "HAVING COUNT(DISTINCT di.ingredient_id) >= $%d\n", len(args))
	}
	sb.WriteString("ORDER BY d.name")

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search drinks: %w", err)
	}
	defer rows.Close()

	return scanDrinks(rows)
}

// AvailableCrafts returns every drink the user can craft right now: they
// hold the drink's glass and at least one of every required ingredient.
func (r *CatalogRepository) AvailableCrafts(ctx context.Context, userID string) ([]domain.Drink, error) {
	query := fmt.Sprintf(`
		WITH required_ingredients AS (
			SELECT drink_id, COUNT(ingredient_id) AS required_count
			FROM drink_ingredients
			GROUP BY drink_id
		),
		matching_ingredients AS (
			SELECT di.drink_id, COUNT(DISTINCT di.ingredient_id) AS matched_count
			FROM drink_ingredients AS di
			JOIN ingredient_holdings AS ih ON di.ingredient_id = ih.ingredient_id
			WHERE ih.user_id = $1
			GROUP BY di.drink_id
		)
		SELECT %s
		FROM drinks AS d
		JOIN glass_holdings AS gh ON d.glass_id = gh.glass_id AND gh.user_id = $1
		JOIN required_ingredients AS ri ON d.drink_id = ri.drink_id
		JOIN matching_ingredients AS mi ON d.drink_id = mi.drink_id
		WHERE mi.matched_count = ri.required_count
		ORDER BY d.name
	`, drinkColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get available crafts: %w", err)
	}
	defer rows.Close()

	return scanDrinks(rows)
}

func scanDrinks(rows pgx.Rows) ([]domain.Drink, error) {
	var drinks []domain.Drink
	for rows.Next() {
		var d domain.Drink
		err := rows.Scan(
			&d.ID, &d.Name, &d.NameAlternate, &d.Tags, &d.Category,
			&d.Alcoholic, &d.GlassID, &d.Instructions, &d.Thumbnail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drink row: %w", err)
		}
		drinks = append(drinks, d)
	}
	return drinks, rows.Err()
}
