package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/board"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/config"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	hub := board.NewHub(cfg.Engine(), cfg.CanvasWidth, cfg.CanvasHeight)
	origins := originPatterns(cfg.AllowedOrigins)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/boards", func(w http.ResponseWriter, r *http.Request) {
		id := typeid.NewBoardID()
		hub.GetOrCreate(id)
		writeJSON(w, http.StatusCreated, map[string]string{"boardId": id})
	}).Methods("POST")

	r.HandleFunc("/boards/{boardId}/shapes", func(w http.ResponseWriter, r *http.Request) {
		b := hub.Get(mux.Vars(r)["boardId"])
		if b == nil {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, b.Store.List())
	}).Methods("GET")

	r.HandleFunc("/boards/{boardId}/shapes", func(w http.ResponseWriter, r *http.Request) {
		b := hub.Get(mux.Vars(r)["boardId"])
		if b == nil {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		var s shape.Shape
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "invalid shape", http.StatusBadRequest)
			return
		}
		if s.ID == "" {
			s.ID = typeid.NewShapeID()
		}
		if err := b.Store.Add(s); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		b.Engine.ShapeAdded(s.ID)
		writeJSON(w, http.StatusCreated, s)
	}).Methods("POST")

	r.HandleFunc("/ws/board/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *board.Hub, origins []string) {
	boardID := mux.Vars(r)["boardId"]
	b := hub.GetOrCreate(boardID)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := board.NewClient(b, conn, clientID)
	hub.Register(b, client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// originPatterns strips schemes off the configured origins; the websocket
// library matches host patterns only.
func originPatterns(allowed string) []string {
	var out []string
	for _, o := range strings.Split(allowed, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
