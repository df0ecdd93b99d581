package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/catalog"
	"barkeep/internal/domain"
	"barkeep/internal/metrics"
)

// SearchCommand returns the search command definition and handler
func SearchCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "search",
		Description: "Search the catalog",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "drink",
				Description: "Find drinks by name or by what goes in them",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Drink name or id",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "ingredients",
						Description: "Comma-separated ingredient names",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "glass",
						Description: "Glass name or id",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "ingredient",
				Description: "Look up an ingredient",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Ingredient name or id",
						Required:    true,
					},
				},
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		sub := getOptions(i)[0]
		metrics.SearchesTotal.WithLabelValues(sub.Name).Inc()

		switch sub.Name {
		case "drink":
			handleSearchDrink(ctx, s, i, svc, sub.Options)
		case "ingredient":
			handleSearchIngredient(ctx, s, i, svc, sub.Options[0].StringValue())
		}
	}

	return cmd, handler
}

func handleSearchDrink(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var name, ingredients, glass string
	for _, opt := range opts {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "ingredients":
			ingredients = opt.StringValue()
		case "glass":
			glass = opt.StringValue()
		}
	}

	// Name lookup takes priority over filters.
	if name != "" {
		showDrink(ctx, s, i, svc, name)
		return
	}
	if ingredients == "" && glass == "" {
		respondFriendlyError(ctx, s, i, "search",
			fmt.Errorf("%w: give a name, ingredients, or a glass", domain.ErrInvalidArgument))
		return
	}

	params := catalog.SearchParams{}
	for _, term := range strings.Split(ingredients, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		item, err := resolveUnique(ctx, svc, domain.KindIngredient, term)
		if err != nil {
			respondFriendlyError(ctx, s, i, "search", err)
			return
		}
		params.IngredientIDs = append(params.IngredientIDs, item.ID)
	}
	if glass != "" {
		item, err := resolveUnique(ctx, svc, domain.KindGlass, glass)
		if err != nil {
			respondFriendlyError(ctx, s, i, "search", err)
			return
		}
		params.GlassID = item.ID
	}

	drinks, err := svc.Catalog.SearchDrinks(ctx, params)
	if err != nil {
		respondFriendlyError(ctx, s, i, "search", err)
		return
	}
	if len(drinks) == 0 {
		sendEmbed(s, i, createEmbed("No drinks found", "Nothing in the catalog matches those filters.", 0x95a5a6))
		return
	}

	sendPaged(s, i, svc, "Matching drinks", drinkLines(drinks), 0x3498db)
}

// showDrink resolves a drink by name or id and renders the full record,
// or the candidate list when the name is ambiguous.
func showDrink(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services, nameOrID string) {
	res, err := svc.Catalog.Resolve(ctx, domain.KindDrink, nameOrID)
	if err != nil {
		respondFriendlyError(ctx, s, i, "search", err)
		return
	}
	if res.NotFound() {
		respondFriendlyError(ctx, s, i, "search", fmt.Errorf("%w: drink %q", domain.ErrNotFound, nameOrID))
		return
	}
	if res.Ambiguous() {
		sendPaged(s, i, svc, fmt.Sprintf("Drinks matching %q", nameOrID), matchLines(res.Matches), 0x3498db)
		return
	}

	item, _ := res.Unique()
	drink, err := svc.Catalog.Drink(ctx, item.ID)
	if err != nil {
		respondFriendlyError(ctx, s, i, "search", err)
		return
	}
	ingredients, err := svc.Catalog.DrinkIngredients(ctx, item.ID)
	if err != nil {
		respondFriendlyError(ctx, s, i, "search", err)
		return
	}
	glass, err := svc.Catalog.Glass(ctx, drink.GlassID)
	if err != nil {
		respondFriendlyError(ctx, s, i, "search", err)
		return
	}

	sendEmbed(s, i, drinkEmbed(drink, glass, ingredients))
}

func handleSearchIngredient(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services, nameOrID string) {
	res, err := svc.Catalog.Resolve(ctx, domain.KindIngredient, nameOrID)
	if err != nil {
		respondFriendlyError(ctx, s, i, "search", err)
		return
	}
	if res.NotFound() {
		respondFriendlyError(ctx, s, i, "search", fmt.Errorf("%w: ingredient %q", domain.ErrNotFound, nameOrID))
		return
	}
	if res.Ambiguous() {
		sendPaged(s, i, svc, fmt.Sprintf("Ingredients matching %q", nameOrID), matchLines(res.Matches), 0x3498db)
		return
	}

	item, _ := res.Unique()
	ing, err := svc.Catalog.Ingredient(ctx, item.ID)
	if err != nil {
		respondFriendlyError(ctx, s, i, "search", err)
		return
	}

	sendEmbed(s, i, ingredientEmbed(ing))
}

// resolveUnique resolves a term that must name exactly one catalog item.
func resolveUnique(ctx context.Context, svc *Services, kind domain.ItemKind, term string) (domain.CatalogItem, error) {
	res, err := svc.Catalog.Resolve(ctx, kind, term)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	if res.NotFound() {
		return domain.CatalogItem{}, fmt.Errorf("%w: %s %q", domain.ErrNotFound, kind, term)
	}
	if res.Ambiguous() {
		return domain.CatalogItem{}, &domain.AmbiguousMatchError{Kind: kind, Term: term, Matches: res.Matches}
	}
	item, _ := res.Unique()
	return item, nil
}
