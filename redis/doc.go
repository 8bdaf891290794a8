// Package redis wraps go-redis with structured logging and key namespacing.
//
// TypedStore layers JSON encoding over the client for a single value type:
//
//	client, err := redis.New(redis.Config{Addr: "localhost:6379"}, log)
//	users := redis.NewTypedStore[userRecord](client, "users")
//	err = users.Save(ctx, id, &rec, 0)
package redis
