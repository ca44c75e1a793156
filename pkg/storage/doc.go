// Package storage provides database and Redis connection management.
//
// # PostgreSQL
//
// Open the connection pool:
//
//	db, err := storage.Connect(ctx, cfg.Database)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
// # Run Lock
//
// The optional Redis run lock guarantees at most one billing run per day
// across replicas:
//
//	lock, err := storage.NewRunLock(cfg.Redis)
//	ok, err := lock.Acquire(ctx, today)
//	if !ok {
//		// another replica ran today
//	}
package storage
