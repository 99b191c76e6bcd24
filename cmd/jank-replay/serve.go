package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/jank.report/internal/db"
	"github.com/banshee-data/jank.report/internal/report"
)

// newServeMux mounts the stored-run report page and the database debug
// routes.
func newServeMux(database *db.DB) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := database.AttachAdminRoutes(mux); err != nil {
		return nil, err
	}
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		handleReport(database, w, r)
	})
	return mux, nil
}

// handleReport renders /report?run=<id> from the stored results.
func handleReport(database *db.DB, w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("run"))
	if err != nil {
		http.Error(w, "missing or invalid 'run' parameter", http.StatusBadRequest)
		return
	}

	run, err := database.GetRun(id)
	if errors.Is(err, db.ErrRunNotFound) {
		http.Error(w, fmt.Sprintf("run %s not found", id), http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, fmt.Sprintf("failed to load run: %v", err), http.StatusInternalServerError)
		return
	}
	res, err := database.RunResult(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load results: %v", err), http.StatusInternalServerError)
		return
	}
	rec, err := database.RunHistograms(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load histograms: %v", err), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteHTML(&buf, run.Source, res, rec.Snapshot()); err != nil {
		http.Error(w, fmt.Sprintf("failed to render report: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// runServe serves stored runs until SIGINT or SIGTERM.
func runServe(dbPath, listen string) error {
	database, err := db.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	mux, err := newServeMux(database)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("got request %q", r.URL.Path)
		mux.ServeHTTP(w, r)
	})
	server := &http.Server{
		Addr:    listen,
		Handler: h,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Serving %s on %s", dbPath, listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("Graceful shutdown complete")
	return nil
}
