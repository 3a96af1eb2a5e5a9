// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction runs fn inside a multi-document transaction. The
// callback receives a session-bound context; every store call made with
// it participates in the same transaction.
//
// Standalone mongod instances (local dev) do not support transactions.
// When the server reports that, fn is re-run once without a session:
// the aborted attempt left no partial state, and the fallback trades
// isolation for working local development. Deployments that need the
// atomicity guarantee must run against a replica set.
func WithTransaction(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("mongo sessions unsupported; applying writes without a transaction")
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("mongo transactions unsupported; applying writes without a transaction")
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions or sessions (standalone topology). Recognizes the
// well-known command error codes and falls back to message probing for
// drivers/servers that wrap the error differently.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 20 IllegalOperation variants, 51 also IllegalOperation,
		// 263 OperationNotSupportedInTransaction.
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") {
		for _, kw := range []string{"replica set", "session", "illegal operation", "not supported"} {
			if strings.Contains(msg, kw) {
				return true
			}
		}
	}
	return strings.Contains(msg, "session") && strings.Contains(msg, "not supported")
}
