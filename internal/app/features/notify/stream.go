// internal/app/features/notify/stream.go
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/suitemate/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Watcher tails the requests collection with a Mongo change stream and
// feeds the hub. Change streams need a replica set; on a standalone
// server Run logs once and returns, leaving clients to poll
// /requests/unseen-count instead.
type Watcher struct {
	DB  *mongo.Database
	Hub *Hub
	Log *zap.Logger
}

func NewWatcher(db *mongo.Database, hub *Hub, logger *zap.Logger) *Watcher {
	return &Watcher{DB: db, Hub: hub, Log: logger}
}

// Run blocks until ctx is cancelled, reconnecting the stream with a
// short backoff when it drops.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if err := w.watch(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			if isUnsupported(err) {
				w.Log.Info("change streams unavailable, live notifications disabled",
					zap.Error(err))
				return
			}
			w.Log.Warn("request change stream dropped, reconnecting", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (w *Watcher) watch(ctx context.Context) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := w.DB.Collection("requests").Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return err
	}
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		var ch struct {
			OperationType string             `bson:"operationType"`
			FullDocument  models.JoinRequest `bson:"fullDocument"`
		}
		if err := cs.Decode(&ch); err != nil {
			w.Log.Warn("decoding change event", zap.Error(err))
			continue
		}
		w.dispatch(ch.OperationType, ch.FullDocument)
	}
	return cs.Err()
}

func (w *Watcher) dispatch(op string, req models.JoinRequest) {
	switch op {
	case "insert":
		// New pending request: ping the recipient.
		w.Hub.Notify(req.RecipientID().Hex(), Event{
			Kind:      "request",
			RequestID: req.ID.Hex(),
			FromGroup: req.FromGroup,
		})
	case "update", "replace":
		if req.Status == models.RequestPending {
			return
		}
		// Resolved: ping both sides so open views refresh.
		ev := Event{
			Kind:      "resolved",
			RequestID: req.ID.Hex(),
			FromGroup: req.FromGroup,
			Status:    req.Status,
		}
		w.Hub.Notify(req.UserID.Hex(), ev)
		w.Hub.Notify(req.GroupLeaderID.Hex(), ev)
	case "delete":
		// Deletes carry no document under updateLookup, so the
		// recipients are unknown. Nudge everyone to refetch.
		w.Hub.Broadcast(Event{Kind: "refresh"})
	}
}

// isUnsupported reports whether the server rejected change streams
// outright (standalone deployments).
func isUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 40573: $changeStream is only supported on replica sets
		return cmdErr.Code == 40573 || cmdErr.HasErrorLabel("NonResumableChangeStreamError")
	}
	return false
}
