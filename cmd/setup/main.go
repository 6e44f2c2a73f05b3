// Command setup bootstraps the keyspace and tables. Run once before the
// service starts; waits for the store to come up first.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocql/gocql"
	"github.com/joho/godotenv"

	"github.com/yourorg/chat-app/services/messenger-service/internal/config"
)

const createMessagesTable = `CREATE TABLE IF NOT EXISTS %s.messages_by_conversation (
	conversation_id UUID,
	message_timestamp TIMESTAMP,
	message_id TIMEUUID,
	sender_id INT,
	recipient_id INT,
	content TEXT,
	PRIMARY KEY ((conversation_id), message_timestamp, message_id))
	WITH CLUSTERING ORDER BY (message_timestamp DESC, message_id ASC)`

const createConversationsTable = `CREATE TABLE IF NOT EXISTS %s.user_conversations (
	conversation_id UUID PRIMARY KEY,
	list_of_users LIST<INT>,
	last_message_content TEXT,
	last_message_at TIMESTAMP,
	created_at TIMESTAMP
)`

func main() {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	session, err := waitForCassandra(cfg)
	if err != nil {
		log.Fatalf("cassandra not ready: %v", err)
	}
	defer session.Close()

	keyspace := cfg.Cassandra.Keyspace
	createKeyspace := fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = { 'class': 'SimpleStrategy', 'replication_factor': 1 }`,
		keyspace)
	if err := session.Query(createKeyspace).Exec(); err != nil {
		log.Fatalf("create keyspace: %v", err)
	}

	for _, stmt := range []string{
		fmt.Sprintf(createMessagesTable, keyspace),
		fmt.Sprintf(createConversationsTable, keyspace),
	} {
		if err := session.Query(stmt).Exec(); err != nil {
			log.Fatalf("setup statement failed: %v", err)
		}
	}
	log.Printf("keyspace %s ready", keyspace)
}

func waitForCassandra(cfg *config.Config) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Cassandra.Hosts...)
	cluster.Port = cfg.Cassandra.Port
	cluster.Timeout = cfg.CassandraTimeout

	var lastErr error
	for i := 0; i < 10; i++ {
		session, err := cluster.CreateSession()
		if err == nil {
			return session, nil
		}
		lastErr = err
		log.Printf("cassandra not ready yet: %v", err)
		time.Sleep(5 * time.Second)
	}
	return nil, lastErr
}
