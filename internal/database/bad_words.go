package database

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const badWordsURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// fallbackBadWords keeps the profanity filter functional when the install
// has never been online. The full list replaces it on the first successful
// fetch.
var fallbackBadWords = []string{
	"damn", "hell", "crap", "stupid", "idiot", "dumbass", "bastard", "bitch",
	"shit", "fuck", "asshole", "dick", "piss", "slut", "whore",
}

// SeedBadWords populates the bad words filter, fetching the full list from
// GitHub when reachable and falling back to a built-in list otherwise.
func (db *DB) SeedBadWords() error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM bad_words").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check bad words count: %w", err)
	}

	if count > 0 {
		log.Printf("Bad words filter already populated with %d words", count)
		return nil
	}

	words, err := fetchBadWords()
	if err != nil {
		log.Printf("Warning: using built-in bad words list: %v", err)
		words = fallbackBadWords
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Tx.Prepare(db.Dialect.RewriteQuery("INSERT INTO bad_words (word) VALUES (?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	wordsAdded := 0
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if _, err := stmt.Exec(word); err != nil {
			return fmt.Errorf("failed to insert word: %w", err)
		}
		wordsAdded++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bad words: %w", err)
	}

	log.Printf("Bad words filter seeded with %d words", wordsAdded)
	return nil
}

// HasBadWord reports whether any word in text appears in the filter.
func (db *DB) HasBadWord(text string) (bool, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	})

	for _, word := range words {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM bad_words WHERE word = ?", word).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("failed to check bad word: %w", err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// fetchBadWords downloads the LDNOOBW english word list.
func fetchBadWords() ([]string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(badWordsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download bad words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code from bad words URL: %d", resp.StatusCode)
	}

	var words []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bad words list: %w", err)
	}
	return words, nil
}
