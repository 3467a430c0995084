package deps

import (
	"log"

	"github.com/ekermen/crowdcheck/config"
	"github.com/ekermen/crowdcheck/internal/db"
	"github.com/ekermen/crowdcheck/internal/http/nominatim"
	"github.com/ekermen/crowdcheck/util/websockets"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	DB        *db.DB
	Nominatim *nominatim.Client
	WebSocket *websockets.WebSocketManager
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	geocoder := nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent)
	websocket := websockets.NewWebSocketManager()

	deps := Dependencies{
		DB:        database,
		Nominatim: geocoder,
		WebSocket: websocket,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
