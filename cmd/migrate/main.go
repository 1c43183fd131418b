// cmd/migrate/main.go
package main

import (
	"context"
	"log"
	"time"

	"allai/config"
	"allai/services"
)

func main() {
	ctx := context.Background()
	opts := config.GetStoreOptions()

	// 数回リトライを試みる
	var err error
	for i := 0; i < 3; i++ {
		err = migrate(ctx, opts)
		if err == nil {
			break
		}
		log.Printf("Attempt %d: Failed to provision %s user store: %v", i+1, opts.Kind, err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("Failed to provision user store after retries: %v", err)
	}
	log.Printf("User store %s is ready", opts.Kind)
}

func migrate(ctx context.Context, opts services.StoreOptions) error {
	store, closeStore, err := services.OpenUserStore(ctx, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return store.EnsureSchema(ctx)
}
