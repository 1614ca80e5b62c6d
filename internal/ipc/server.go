package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"poolman/internal/daemon"
	"poolman/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. The shutdown
// callback is invoked when a client requests daemon termination; it must not
// block.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, shutdown func(), logger *slog.Logger) (*Server, error) {
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
	srv := &service{daemon: d, shutdown: shutdown, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Poolman", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logging.NewComponentLogger(logger, "ipc"),
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
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
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
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually before the next start"))
	}
}

type service struct {
	daemon   *daemon.Daemon
	shutdown func()
	logger   *slog.Logger
	ctx      context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("pool start requested")
	if !s.daemon.StartPool() {
		resp.Started = false
		resp.Message = "pool start failed; check daemon logs"
		return nil
	}
	resp.Started = true
	resp.Message = "pool started"
	s.log().Info("pool started via IPC",
		logging.String(logging.FieldEventType, "pool_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("pool stop requested")
	if err := s.daemon.StopPool(s.ctx); err != nil {
		resp.Stopped = false
		resp.Message = err.Error()
		return nil
	}
	resp.Stopped = true
	resp.Message = "pool stopped"
	s.log().Info("pool stopped via IPC",
		logging.String(logging.FieldEventType, "pool_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	st := s.daemon.Status()
	resp.DaemonRunning = st.Running
	resp.PoolRunning = st.Pool.Running
	resp.Hashrate = st.Pool.Hashrate
	resp.Installed = st.Installed
	resp.SessionID = st.SessionID
	resp.LockPath = st.LockFilePath
	resp.PID = st.PID
	return nil
}

func (s *service) Download(_ DownloadRequest, resp *DownloadResponse) error {
	s.log().Debug("release download requested")
	s.daemon.Download(s.ctx)
	resp.Scheduled = true
	return nil
}

func (s *service) Installed(_ InstalledRequest, resp *InstalledResponse) error {
	resp.Installed = s.daemon.Installed()
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	s.log().Info("daemon shutdown requested",
		logging.String(logging.FieldEventType, "daemon_shutdown"))
	if s.shutdown != nil {
		s.shutdown()
	}
	resp.ShuttingDown = true
	return nil
}
