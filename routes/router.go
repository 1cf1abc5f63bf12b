package routes

import (
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"

	"github.com/goggledefogger/smugglers-town/arena"
)

// SetupRoutes registers the arena and auth routes against the app
// router. The KV bucket is the replicated room state the stream
// endpoint reads from.
func SetupRoutes(rtr *router.Router[*core.RequestEvent], kv jetstream.KeyValue, rooms *arena.Manager) error {
	err := errors.Join(
		setupArenaRoutes(rtr, kv, rooms),
		setupAuthRoutes(rtr),
	)
	if err != nil {
		return fmt.Errorf("setting up routes: %w", err)
	}
	return nil
}
