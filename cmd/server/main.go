// Command server runs the expedition game server: WebSocket game transport
// on /ws and the static client at the web root.
package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Adam-D-Lewis/lost-cities/internal/cache"
	"github.com/Adam-D-Lewis/lost-cities/internal/config"
	"github.com/Adam-D-Lewis/lost-cities/internal/game"
	"github.com/Adam-D-Lewis/lost-cities/internal/ws"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	var historian *cache.Historian
	if cfg.RedisAddr != "" {
		h, err := cache.New(cfg.RedisAddr, log)
		if err != nil {
			log.WithError(err).Warn("action history disabled, redis unreachable")
		} else {
			historian = h
			defer h.Close()
			log.WithField("addr", cfg.RedisAddr).Info("action history enabled")
		}
	}

	transport := ws.NewServer(log)
	hub := game.NewHub(game.NewRegistry(), transport, historian, log)
	transport.SetHandler(hub)

	mux := http.NewServeMux()
	mux.Handle("/ws", transport)
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	log.WithField("addr", cfg.Addr).Info("server listening")
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
