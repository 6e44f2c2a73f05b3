// Command seed fills the keyspace with random conversations and
// messages for local development.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/chat-app/services/messenger-service/internal/cassandra"
	"github.com/yourorg/chat-app/services/messenger-service/internal/config"
	"github.com/yourorg/chat-app/services/messenger-service/internal/logger"
	"github.com/yourorg/chat-app/services/messenger-service/internal/repository"
)

var samples = []string{
	"hey, are you around?",
	"sure, works for me",
	"did you see the game last night?",
	"running a bit late, sorry",
	"lunch tomorrow?",
	"done, pushed the fix",
	"call me when you get a chance",
	"happy birthday!",
}

func main() {
	_ = godotenv.Load()

	users := flag.Int("users", 10, "number of users to seed")
	conversations := flag.Int("conversations", 15, "number of conversations to seed")
	maxMessages := flag.Int("max-messages", 50, "max messages per conversation")
	flag.Parse()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	zl, err := logger.New(logger.Config{Development: true})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}

	db := cassandra.NewClient(cassandra.Config{
		Hosts:    cfg.Cassandra.Hosts,
		Port:     cfg.Cassandra.Port,
		Keyspace: cfg.Cassandra.Keyspace,
		Timeout:  cfg.CassandraTimeout,
	}, zl)
	if err := db.Connect(); err != nil {
		zl.Fatalw("cassandra init", "error", err)
	}
	defer db.Close()

	directory := repository.NewConversationDirectory(db)
	messages := repository.NewMessageStore(db, directory)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	seeded := 0
	for i := 0; i < *conversations; i++ {
		userA := rng.Intn(*users) + 1
		userB := rng.Intn(*users) + 1
		for userB == userA {
			userB = rng.Intn(*users) + 1
		}
		conv, err := directory.ResolveOrCreate(ctx, userA, userB)
		if err != nil {
			zl.Fatalw("resolve conversation", "error", err)
		}
		count := rng.Intn(*maxMessages) + 1
		for j := 0; j < count; j++ {
			sender, recipient := userA, userB
			if rng.Intn(2) == 0 {
				sender, recipient = userB, userA
			}
			if _, err := messages.Append(ctx, conv.ID, sender, recipient, samples[rng.Intn(len(samples))]); err != nil {
				zl.Fatalw("append message", "error", err)
			}
			seeded++
		}
		// fire-and-forget bump so scans return varied timestamps
		db.ExecuteAsync(`UPDATE user_conversations SET created_at = ? WHERE conversation_id = ?`,
			time.Now().UTC().Add(-time.Duration(rng.Intn(72))*time.Hour), conv.ID)
	}

	// let async updates drain
	time.Sleep(time.Second)
	zl.Infow("seeding complete", "conversations", *conversations, "messages", seeded)
}
