package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"tetatet/backend/internal/roomstore"
)

// Операторський CLI для сховища кімнат. Деструктивні операції живуть тут,
// поза публічним HTTP-шляхом.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}
	store := roomstore.NewRedisStore(rdb, 0)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: show-room <key> | list-rooms | clear-room <key> | clear-all")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "show-room":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show-room <room_key>")
			os.Exit(1)
		}
		room, err := store.Get(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Error reading room: %v", err)
		}
		data, _ := json.MarshalIndent(room, "", "  ")
		fmt.Println(string(data))
	case "list-rooms":
		rooms, err := store.Scan(ctx, roomstore.RoomScanPrefix("any"))
		if err != nil {
			log.Fatalf("Error scanning rooms: %v", err)
		}
		for _, room := range rooms {
			fmt.Printf("%s\t%s\t%d participants\tv%d\n",
				room.RoomKey, room.State(), len(room.Participants), room.Version)
		}
		fmt.Printf("%d rooms total\n", len(rooms))
	case "clear-room":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin clear-room <room_key>")
			os.Exit(1)
		}
		if err := store.Delete(ctx, os.Args[2]); err != nil {
			log.Fatalf("Error clearing room: %v", err)
		}
		fmt.Printf("Room %s has been cleared.\n", os.Args[2])
	case "clear-all":
		if err := store.DeleteAll(ctx); err != nil {
			log.Fatalf("Error clearing store: %v", err)
		}
		fmt.Println("Room store has been cleared.")
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
