package discord

import (
	"hash/fnv"

	"barkeep/internal/domain"
)

// Embed flair is derived from the item name alone so the same item always
// shows the same color and emoji, with no shared random state.

var flairColors = []int{
	0xe74c3c, // red
	0xe67e22, // orange
	0xf1c40f, // yellow
	0x2ecc71, // green
	0x1abc9c, // teal
	0x3498db, // blue
	0x9b59b6, // purple
	0xe91e63, // pink
}

var flairEmojis = map[domain.ItemKind][]string{
	domain.KindDrink:      {"🍸", "🍹", "🍺", "🥂", "🍷", "🥃", "🍾", "🧉"},
	domain.KindGlass:      {"🥛", "🍶", "🏺", "🫗"},
	domain.KindIngredient: {"🍋", "🍒", "🥥", "🌿", "🍊", "🫒", "🍑", "🧂", "🍓", "🥝"},
}

func flairHash(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

// itemColor picks a stable embed color for an item name.
func itemColor(name string) int {
	return flairColors[flairHash(name)%uint32(len(flairColors))]
}

// itemEmoji picks a stable emoji for an item.
func itemEmoji(kind domain.ItemKind, name string) string {
	set := flairEmojis[kind]
	if len(set) == 0 {
		return "🍸"
	}
	return set[flairHash(name)%uint32(len(set))]
}
