package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"reelflow/internal/api"
	"reelflow/internal/batch"
	"reelflow/internal/daemon"
	"reelflow/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Reelflow", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "ipc")
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC")
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	*resp = s.daemon.Status(s.ctx)
	return nil
}

func (s *service) Board(_ BoardRequest, resp *BoardResponse) error {
	view, err := s.daemon.Board(s.ctx)
	if err != nil {
		return err
	}
	resp.Board = view
	return nil
}

func (s *service) BatchList(req BatchListRequest, resp *BatchListResponse) error {
	statuses := make([]batch.Status, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		parsed, ok := batch.ParseStatus(status)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	batches, err := s.daemon.ListBatches(s.ctx, statuses)
	if err != nil {
		return err
	}
	resp.Batches = batches
	return nil
}

func (s *service) BatchDescribe(req BatchDescribeRequest, resp *BatchDescribeResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.ID)
	}
	described, err := s.daemon.DescribeBatch(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if described == nil {
		return fmt.Errorf("batch %d not found", req.ID)
	}
	resp.Batch = *described
	return nil
}

func (s *service) BatchCreate(req BatchCreateRequest, resp *BatchCreateResponse) error {
	created, err := s.daemon.CreateBatch(s.ctx, api.CreateBatchRequest{
		Name:      req.Name,
		BatchType: req.BatchType,
	})
	if err != nil {
		return err
	}
	resp.Batch = *created
	s.log().Info("batch created via IPC", logging.Int64(logging.FieldBatchID, created.ID))
	return nil
}

func (s *service) BatchMove(req BatchMoveRequest, resp *BatchMoveResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.ID)
	}
	result, err := s.daemon.MoveBatch(s.ctx, req.ID, req.To)
	if err != nil {
		return err
	}
	resp.Result = result
	return nil
}

func (s *service) BatchTargets(req BatchTargetsRequest, resp *BatchTargetsResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.ID)
	}
	targets, err := s.daemon.BoardTargets(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Targets = targets
	return nil
}

func (s *service) BatchDelete(req BatchDeleteRequest, resp *BatchDeleteResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.ID)
	}
	if err := s.daemon.DeleteBatch(s.ctx, req.ID); err != nil {
		return err
	}
	resp.Deleted = true
	s.log().Info("batch deleted via IPC", logging.Int64(logging.FieldBatchID, req.ID))
	return nil
}

func (s *service) FieldSet(req FieldSetRequest, resp *FieldSetResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.ID)
	}
	if err := s.daemon.SetBatchField(s.ctx, req.ID, req.Field, req.Value); err != nil {
		return err
	}
	resp.Accepted = true
	return nil
}

func (s *service) ItemAdd(req ItemAddRequest, resp *ItemAddResponse) error {
	if req.BatchID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.BatchID)
	}
	item, err := s.daemon.AddItem(s.ctx, req.BatchID)
	if err != nil {
		return err
	}
	resp.Item = *item
	return nil
}

func (s *service) ItemFieldSet(req ItemFieldSetRequest, resp *ItemFieldSetResponse) error {
	if req.BatchID <= 0 || req.ItemID <= 0 {
		return errors.New("batch and item ids are required")
	}
	if err := s.daemon.SetItemField(s.ctx, req.BatchID, req.ItemID, req.Field, req.Value); err != nil {
		return err
	}
	resp.Accepted = true
	return nil
}

func (s *service) ItemRemove(req ItemRemoveRequest, resp *ItemRemoveResponse) error {
	if req.BatchID <= 0 || req.ItemID <= 0 {
		return errors.New("batch and item ids are required")
	}
	if err := s.daemon.RemoveItem(s.ctx, req.BatchID, req.ItemID); err != nil {
		return err
	}
	resp.Removed = true
	return nil
}

func (s *service) Compose(req ComposeRequest, resp *ComposeResponse) error {
	if req.BatchID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.BatchID)
	}
	result, err := s.daemon.Compose(s.ctx, req.BatchID, req.Target)
	if err != nil {
		return err
	}
	resp.Result = result
	return nil
}

func (s *service) SessionClose(req SessionCloseRequest, resp *SessionCloseResponse) error {
	if req.BatchID <= 0 {
		return fmt.Errorf("invalid batch id %d", req.BatchID)
	}
	s.daemon.CloseSession(req.BatchID)
	resp.Closed = true
	return nil
}
