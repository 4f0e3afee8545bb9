package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"example.com/notekeeper/internal/autosave"
	"example.com/notekeeper/internal/config"
	"example.com/notekeeper/internal/db"
	"example.com/notekeeper/internal/folders"
	"example.com/notekeeper/internal/httpx"
	"example.com/notekeeper/internal/notes"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)

	ctx := context.Background()

	// Without a DATABASE_URL the repositories run purely in memory, which
	// is enough for local development.
	noteStore := notes.NopStore()
	folderStore := folders.NopStore()
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Open(ctx, cfg.DatabaseURL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer dbConn.SQL.Close()

		if err := dbConn.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}

		ns, err := notes.NewPGStore(ctx, dbConn.SQL)
		if err != nil {
			log.Fatal().Err(err).Msg("prepare note store")
		}
		defer ns.Close()
		noteStore = ns

		fs, err := folders.NewPGStore(ctx, dbConn.SQL)
		if err != nil {
			log.Fatal().Err(err).Msg("prepare folder store")
		}
		defer fs.Close()
		folderStore = fs
	}

	noteRepo, err := notes.NewRepository(ctx, noteStore, notes.Options{
		DefaultFolderID: cfg.DefaultFolderID,
		DefaultTitle:    cfg.DefaultNoteTitle,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load notes")
	}

	folderRepo, err := folders.NewRepository(ctx, folderStore, noteRepo, folders.Options{
		DefaultName:  cfg.DefaultFolderName,
		DefaultColor: cfg.DefaultFolderColor,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load folders")
	}

	sessions := autosave.NewManager(noteRepo, cfg.DebounceWindow, log)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount("/notes", notes.NewHandlers(noteRepo).Routes())
	r.Mount("/folders", folders.NewHandlers(folderRepo).Routes())
	r.Mount("/sessions", autosave.NewHandlers(sessions).Routes())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", cfg.HTTPAddr).Dur("debounce_window", cfg.DebounceWindow).Msg("notekeeper API listening")
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}
