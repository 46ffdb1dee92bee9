// Package statestore provides server-side backends for the social.StateStore
// contract: an in-memory store for single-process deployments and tests, a
// Redis store, and a Postgres store.
//
// Entries are keyed by the opaque state token and carry an optional value
// (the PKCE verifier when PKCE is enabled). Expired entries behave as absent.
//
// # Usage
//
//	store := statestore.NewMemory()
//	defer store.Close()
//
//	states := social.NewStoreStates(store, 10*time.Minute)
//	driver, err := social.NewGitHub(cfg, social.WithStateManager(states))
//
// Redis:
//
//	store := statestore.NewRedis(client, statestore.WithKeyPrefix("myapp"))
//
// Postgres (apply migrations once at startup):
//
//	if err := statestore.Migrate(ctx, pool, logger); err != nil {
//		log.Fatal(err)
//	}
//	store := statestore.NewPostgres(pool)
package statestore
