package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reelflow/internal/api"
	"reelflow/internal/batch"
	"reelflow/internal/config"
	"reelflow/internal/logging"
	"reelflow/internal/services"
)

// maxUploadBytes caps multipart video uploads accepted by the API.
const maxUploadBytes = 512 << 20

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logger,
		daemon: d,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/status", srv.handleStatus)
	r.Get("/api/board", srv.handleBoard)

	r.Route("/api/batches", func(r chi.Router) {
		r.Get("/", srv.handleList)
		r.Post("/", srv.handleCreate)
		r.Route("/{batchID}", func(r chi.Router) {
			r.Get("/", srv.handleDescribe)
			r.Patch("/", srv.handleUpdate)
			r.Delete("/", srv.handleDelete)
			r.Get("/targets", srv.handleTargets)
			r.Post("/move", srv.handleMove)
			r.Post("/fields", srv.handleSetField)
			r.Post("/compose", srv.handleCompose)
			r.Post("/close", srv.handleCloseSession)
			r.Post("/items", srv.handleAddItem)
			r.Route("/items/{itemID}", func(r chi.Router) {
				r.Patch("/", srv.handleUpdateItem)
				r.Delete("/", srv.handleRemoveItem)
				r.Post("/fields", srv.handleSetItemField)
				r.Post("/video", srv.handleUploadVideo)
			})
		})
	})

	srv.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil || s.bind == "" {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Handler exposes the router for in-process tests.
func (s *apiServer) handler() http.Handler {
	return s.server.Handler
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleBoard(w http.ResponseWriter, r *http.Request) {
	view, err := s.daemon.Board(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	var statuses []batch.Status
	for _, value := range r.URL.Query()["status"] {
		if parsed, ok := batch.ParseStatus(value); ok {
			statuses = append(statuses, parsed)
		}
	}
	batches, err := s.daemon.ListBatches(r.Context(), statuses)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.BatchListResponse{Batches: batches})
}

func (s *apiServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	created, err := s.daemon.CreateBatch(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.BatchResponse{Batch: *created})
}

func (s *apiServer) handleDescribe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	described, err := s.daemon.DescribeBatch(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if described == nil {
		s.writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.BatchResponse{Batch: *described})
}

func (s *apiServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	var req api.UpdateBatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	updated, err := s.daemon.UpdateBatch(r.Context(), id, req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.BatchResponse{Batch: *updated})
}

func (s *apiServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	if err := s.daemon.DeleteBatch(r.Context(), id); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleTargets(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	targets, err := s.daemon.boardSvc.Targets(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, targets)
}

func (s *apiServer) handleMove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	var req struct {
		To string `json:"to"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.daemon.MoveBatch(r.Context(), id, req.To)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleSetField(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.daemon.SetBatchField(r.Context(), id, req.Field, req.Value); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *apiServer) handleCompose(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	var req struct {
		Target string `json:"target"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.daemon.Compose(r.Context(), id, req.Target)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	s.daemon.CloseSession(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.batchID(w, r)
	if !ok {
		return
	}
	item, err := s.daemon.AddItem(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.ItemResponse{Item: *item})
}

func (s *apiServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	batchID, itemID, ok := s.itemIDs(w, r)
	if !ok {
		return
	}
	var req api.UpdateItemRequest
	if !s.decode(w, r, &req) {
		return
	}
	item, err := s.daemon.UpdateItem(r.Context(), batchID, itemID, req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ItemResponse{Item: *item})
}

func (s *apiServer) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	batchID, itemID, ok := s.itemIDs(w, r)
	if !ok {
		return
	}
	if err := s.daemon.RemoveItem(r.Context(), batchID, itemID); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleSetItemField(w http.ResponseWriter, r *http.Request) {
	batchID, itemID, ok := s.itemIDs(w, r)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.daemon.SetItemField(r.Context(), batchID, itemID, req.Field, req.Value); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *apiServer) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	batchID, itemID, ok := s.itemIDs(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart file field required")
		return
	}
	defer file.Close()
	item, err := s.daemon.UploadItemVideo(r.Context(), batchID, itemID, file, header.Filename)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ItemResponse{Item: *item})
}

func (s *apiServer) batchID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "batchID"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid batch id")
		return 0, false
	}
	return id, true
}

func (s *apiServer) itemIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	batchID, ok := s.batchID(w, r)
	if !ok {
		return 0, 0, false
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || itemID <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return 0, 0, false
	}
	return batchID, itemID, true
}

func (s *apiServer) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeFailure maps the error taxonomy onto HTTP status codes.
func (s *apiServer) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrExternalService):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
