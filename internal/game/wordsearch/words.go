package wordsearch

import (
	_ "embed"
	"strings"
	"sync"

	"casualgames/internal/rng"
)

//go:embed words.txt
var embeddedWords string

var (
	loadOnce sync.Once
	wordList []string
)

// Dictionary returns the embedded word list, upper-cased.
func Dictionary() []string {
	loadOnce.Do(func() {
		for _, line := range strings.Split(embeddedWords, "\n") {
			w := strings.ToUpper(strings.TrimSpace(line))
			if w != "" {
				wordList = append(wordList, w)
			}
		}
	})
	return wordList
}

// PickWords draws n distinct words of at most maxLen letters. It returns
// fewer when the dictionary runs out.
func PickWords(src rng.Source, n, maxLen int) []string {
	var pool []string
	for _, w := range Dictionary() {
		if len(w) <= maxLen {
			pool = append(pool, w)
		}
	}
	rng.Shuffle(src, pool)
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
