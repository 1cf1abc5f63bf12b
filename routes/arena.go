package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/pocketbase/pocketbase/tools/security"
	datastar "github.com/starfederation/datastar/sdk/go"

	"github.com/goggledefogger/smugglers-town/arena"
)

// Signals is the DataStar signal envelope for /update. Each field is a
// JSON-encoded sub-payload; empty fields are absent. Raw payloads are
// validated here and only typed messages ever reach the room.
type Signals struct {
	Room    string `json:"room"`
	Session string `json:"session"`
	Input   string `json:"input"`
	Leave   string `json:"leave"`
	AddAI   string `json:"addAi"`
	Origin  string `json:"origin"`
}

type inputPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type originPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addAIPayload struct {
	Team string `json:"team"`
}

const (
	snapshotInterval = 100 * time.Millisecond
	defaultRoomID    = "town"
)

func setupArenaRoutes(rtr *router.Router[*core.RequestEvent], kv jetstream.KeyValue, rooms *arena.Manager) error {

	// POST route for client intents. Malformed sub-payloads are logged
	// and ignored; well-formed ones become typed room messages.
	rtr.POST("/update", func(e *core.RequestEvent) error {
		signals := &Signals{}
		if err := datastar.ReadSignals(e.Request, signals); err != nil {
			log.Warn("reading update signals", "err", err)
			return e.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if signals.Session == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "missing session"})
		}
		if signals.Room == "" {
			signals.Room = defaultRoomID
		}
		room := rooms.Get(signals.Room)

		if signals.Input != "" {
			var in inputPayload
			if err := json.Unmarshal([]byte(signals.Input), &in); err != nil {
				log.Warn("malformed input payload ignored", "session", signals.Session, "err", err)
			} else {
				room.Enqueue(arena.InputMsg{SessionID: signals.Session, DX: in.DX, DY: in.DY})
			}
		}

		if signals.Leave != "" {
			room.Enqueue(arena.LeaveMsg{SessionID: signals.Session, Graceful: true})
		}

		if signals.AddAI != "" {
			var p addAIPayload
			if err := json.Unmarshal([]byte(signals.AddAI), &p); err != nil {
				log.Warn("malformed addAi payload ignored", "session", signals.Session, "err", err)
			} else if team, ok := arena.ParseTeam(p.Team); !ok {
				log.Warn("invalid addAi team ignored", "session", signals.Session, "team", p.Team)
			} else {
				room.Enqueue(arena.AddAIMsg{Team: team})
			}
		}

		if signals.Origin != "" {
			var p originPayload
			if err := json.Unmarshal([]byte(signals.Origin), &p); err != nil {
				log.Warn("malformed origin payload ignored", "session", signals.Session, "err", err)
			} else {
				room.Enqueue(arena.SetOriginMsg{Lat: p.Lat, Lng: p.Lng})
			}
		}

		return e.JSON(http.StatusOK, map[string]bool{"success": true})
	})

	// GET route for the state stream. Connecting joins the room; the
	// stream's lifetime is the session's lifetime, so a broken
	// connection starts the room's grace window rather than an
	// immediate removal.
	rtr.GET("/gamestate", func(e *core.RequestEvent) error {
		name := e.Request.URL.Query().Get("name")
		if name == "" {
			name = "Guest"
		}
		if e.Auth != nil && e.Auth.Email() != "" {
			name = e.Auth.Email()
		}
		tabID := e.Request.URL.Query().Get("tab")
		roomID := e.Request.URL.Query().Get("room")
		if roomID == "" {
			roomID = defaultRoomID
		}
		room := rooms.Get(roomID)

		sessionID := security.RandomString(15)
		reply := make(chan arena.Team, 1)
		room.Enqueue(arena.JoinMsg{SessionID: sessionID, Name: name, TabID: tabID, Reply: reply})

		var team arena.Team
		select {
		case team = <-reply:
		case <-time.After(2 * time.Second):
			return e.JSON(http.StatusServiceUnavailable, map[string]string{"error": "room not responding"})
		}

		sse := datastar.NewSSE(e.Response, e.Request)
		defer room.Enqueue(arena.LeaveMsg{SessionID: sessionID, Graceful: false})

		if err := sse.MergeSignals([]byte(fmt.Sprintf(`{"session": %q, "team": %q}`, sessionID, team))); err != nil {
			return err
		}

		ticker := time.NewTicker(snapshotInterval)
		defer ticker.Stop()
		var lastRev uint64
		for {
			select {
			case <-e.Request.Context().Done():
				return nil
			case <-ticker.C:
				entry, err := kv.Get(e.Request.Context(), room.ID)
				if err != nil {
					log.Warn("reading room state", "room", room.ID, "err", err)
					continue
				}
				if entry.Revision() == lastRev {
					continue
				}
				lastRev = entry.Revision()
				payload := fmt.Sprintf(`{"gameState": %q}`, string(entry.Value()))
				if err := sse.MergeSignals([]byte(payload)); err != nil {
					return nil
				}
			}
		}
	})

	rtr.GET("/healthz", func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return nil
}
