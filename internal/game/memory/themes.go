package memory

// Theme names a symbol set.
type Theme string

const (
	Numbers Theme = "numbers"
	Animals Theme = "animals"
	Fruits  Theme = "fruits"
)

var symbols = map[Theme][]string{
	Numbers: {
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14",
		"15", "16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27", "28",
	},
	Animals: {
		"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔",
		"🐧", "🐦", "🐤", "🦆", "🦅", "🦉", "🦇", "🐺", "🐗", "🐴", "🦄", "🐝", "🐛", "🦋",
	},
	Fruits: {
		"🍎", "🍐", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓", "🫐", "🍒", "🍑", "🥭", "🍍", "🥝",
		"🍅", "🥥", "🥑", "🍆", "🥔", "🥕", "🌽", "🌶️", "🥒", "🥬", "🥦", "🍄", "🥜", "🌰",
	},
}

// Symbols returns the symbol table of t, or nil for an unknown theme.
func (t Theme) Symbols() []string {
	return symbols[t]
}
