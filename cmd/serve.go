package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/stats"
	"github.com/ids-analytics/pubstats/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset and regression results over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "serve: migrate store")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("serve: shutting down")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("serve: listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}

		return nil
	},
}

func newRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/observations", func(w http.ResponseWriter, req *http.Request) {
		obs, err := st.ListObservations(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, obs)
	})

	r.Get("/api/missing", func(w http.ResponseWriter, req *http.Request) {
		obs, err := st.ListObservations(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, dataset.MissingReport(obs))
	})

	r.Get("/api/fit", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()

		response := dataset.ColPubsPerCapita
		if s := q.Get("response"); s != "" {
			c, err := dataset.ParseColumn(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			response = c
		}
		predictor := dataset.ColMedianPay2017
		if s := q.Get("predictor"); s != "" {
			c, err := dataset.ParseColumn(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			predictor = c
		}

		obs, err := st.ListObservations(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		filtered := dataset.ExcludeAreas(obs, q["exclude"]...)
		model, err := stats.Fit(filtered, response, predictor)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, model)
	})

	r.Get("/api/dictionary", func(w http.ResponseWriter, _ *http.Request) {
		dict, err := dataset.DefaultDictionary()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, dict)
	})

	r.Get("/api/fits", func(w http.ResponseWriter, req *http.Request) {
		limit := 0
		if s := req.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, eris.Wrap(err, "serve: parse limit"))
				return
			}
			limit = n
		}

		fits, err := st.ListFits(req.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, fits)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	zap.L().Error("serve: request failed", zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
