package main

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/delaneyj/toolbelt/embeddednats"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/goggledefogger/smugglers-town/arena"
	"github.com/goggledefogger/smugglers-town/arena/roads"
	"github.com/goggledefogger/smugglers-town/middleware"
	"github.com/goggledefogger/smugglers-town/routes"
)

const roadLookupSubject = "roads.lookup"

func main() {
	app := pocketbase.New()

	middleware.AddCookieSessionMiddleware(*app)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		ctx := context.Background()

		ns, err := embeddednats.New(ctx, embeddednats.WithNATSServerOptions(&natsserver.Options{
			JetStream: true,
			StoreDir:  filepath.Join(app.DataDir(), "nats"),
		}))
		if err != nil {
			return err
		}
		ns.WaitForServer()

		nc, err := ns.Client()
		if err != nil {
			return err
		}

		js, err := jetstream.New(nc)
		if err != nil {
			return err
		}
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket: "arena",
		})
		if err != nil {
			return err
		}

		cfg := arena.DefaultConfig()
		source := roads.NewClient(nc, roadLookupSubject, cfg.RoadLookupTimeout)
		rooms := arena.NewManager(ctx, cfg, kv, source)

		if err := routes.SetupRoutes(se.Router, kv, rooms); err != nil {
			return err
		}

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal("server exited", "err", err)
	}
}
