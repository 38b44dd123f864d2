package icon

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Picker
	Favorite
	NotFavorite
	Copied
	Cancelled
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "✖",
		kaomoji: "(╯°□°)╯︵ ┻━┻",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "…",
		kaomoji: "(・_・ヾ",
		squares: "🟦",
	},
	Picker: {
		emoji:   "💧",
		nerd:    "",
		plain:   "◉",
		kaomoji: "(o_O)",
		squares: "🟪",
	},
	Favorite: {
		emoji:   "❤️",
		nerd:    "",
		plain:   "♥",
		kaomoji: "(♥ω♥)",
		squares: "🟥",
	},
	NotFavorite: {
		emoji:   "🤍",
		nerd:    "",
		plain:   "♡",
		kaomoji: "(・ω・)",
		squares: "⬜",
	},
	Copied: {
		emoji:   "📋",
		nerd:    "",
		plain:   "⧉",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟨",
	},
	Cancelled: {
		emoji:   "🚫",
		nerd:    "",
		plain:   "⊘",
		kaomoji: "(¬_¬)",
		squares: "⬛",
	},
}
