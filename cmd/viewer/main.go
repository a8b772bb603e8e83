// Command viewer prints the content of the store as tables. It opens
// the database read-only and bypasses the lock guard, so it can run
// next to a live server.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"

	"story-chat/domain"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
}

func main() {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	printUsers(db)
	printMessages(db)
	printStories(db)
}

func printUsers(db *badger.DB) {
	color.Bold.Println("\nUsers")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Username"})

	forEach(db, "user:", func(val []byte) {
		var u domain.User
		if json.Unmarshal(val, &u) == nil {
			table.Append([]string{shorten(u.ID.String(), 8), u.Username})
		}
	})
	table.Render()
}

func printMessages(db *badger.DB) {
	color.Bold.Println("\nMessages")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "User", "Text"})

	forEach(db, "msg:", func(val []byte) {
		var m domain.Message
		if json.Unmarshal(val, &m) == nil {
			table.Append([]string{m.Time, m.Username, shorten(m.Text, 60)})
		}
	})
	table.Render()
}

func printStories(db *badger.DB) {
	color.Bold.Println("\nStories")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Content", "Bytes"})

	forEach(db, "story:", func(val []byte) {
		var s domain.Story
		if json.Unmarshal(val, &s) == nil {
			table.Append([]string{s.Username, shorten(s.Content, 32), fmt.Sprint(len(s.Content))})
		}
	})
	table.Render()
}

func forEach(db *badger.DB, prefix string, fn func(val []byte)) {
	_ = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			_ = it.Item().Value(func(val []byte) error {
				fn(val)
				return nil
			})
		}
		return nil
	})
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
