package services

import (
	"context"
	"fmt"
)

// StoreOptions selects and configures a UserStore backend.
type StoreOptions struct {
	Kind           string // dynamodb, postgres or memory
	AWSRegion      string
	DynamoEndpoint string
	DynamoTable    string
	PostgresURI    string
}

// OpenUserStore connects to the configured backend. The returned close func
// is never nil.
func OpenUserStore(ctx context.Context, opts StoreOptions) (UserStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case "", "dynamodb":
		db, err := GetDynamoDBClient(ctx, opts.AWSRegion, opts.DynamoEndpoint)
		if err != nil {
			return nil, noop, err
		}
		return NewDynamoUserStore(db, opts.DynamoTable), noop, nil
	case "postgres":
		store, err := NewPostgresUserStore(ctx, opts.PostgresURI)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case "memory":
		return NewMemoryUserStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown user store %q", opts.Kind)
	}
}
