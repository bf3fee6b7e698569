// Package remote serves keywords to Robot Framework over its remote library
// protocol: XML-RPC over HTTP.
package remote

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/oxtoacart/bpool"
	"github.com/pkg/errors"
	"golang.org/x/net/netutil"

	"github.com/playbot-dev/playbot/common"
)

// Fault codes of the XML-RPC faults the server returns.
const (
	FaultMalformedCall = -32700
	FaultUnknownMethod = -32601
	FaultInvalidParams = -32602
)

// Defaults of the server configuration.
const (
	DefaultAddr     = "127.0.0.1:8270"
	DefaultMaxConns = 16
)

// Runner runs keywords by name.
type Runner interface {
	Names() []string
	Arguments(name string) ([]string, error)
	Documentation(name string) (string, error)
	Run(name string, args []any, kwargs map[string]any) (any, error)
}

// Config configures a Server.
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string
	// MaxConns limits the number of simultaneous connections.
	MaxConns int
	// AllowStop lets clients stop the server with stop_remote_server.
	AllowStop bool
}

// NewConfig returns a configuration with the default address and connection
// limit. Remote stops are refused.
func NewConfig() Config {
	return Config{Addr: DefaultAddr, MaxConns: DefaultMaxConns}
}

// Server is a Robot Framework remote library server. Keywords run one at a
// time, whatever the number of connected clients.
type Server struct {
	runner Runner
	cfg    Config
	logger *common.Logger
	bufs   *bpool.BufferPool

	mu       sync.Mutex // serializes keyword runs
	stop     chan struct{}
	stopOnce sync.Once
}

// NewServer returns a server that runs keywords with runner.
func NewServer(runner Runner, cfg Config, logger *common.Logger) *Server {
	if logger == nil {
		logger = common.NullLogger()
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = DefaultMaxConns
	}
	return &Server{
		runner: runner,
		cfg:    cfg,
		logger: logger,
		bufs:   bpool.NewBufferPool(cfg.MaxConns),
		stop:   make(chan struct{}),
	}
}

// ListenAndServe listens on the configured address and serves until ctx is
// done or a client stops the server.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done or a client stops the server. At most
// MaxConns connections are accepted at once.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Infof("Remote:serve", "serving keywords on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(netutil.LimitListener(l, s.cfg.MaxConns))
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	case <-s.stop:
		s.logger.Infof("Remote:serve", "stopped by client")
	}

	// running keywords get a grace period to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}

// ServeHTTP answers one XML-RPC method call.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "xml-rpc requests must be POSTed", http.StatusMethodNotAllowed)
		return
	}

	buf := s.bufs.Get()
	defer s.bufs.Put(buf)

	c, err := DecodeCall(r.Body)
	if err != nil {
		s.logger.Warnf("Remote:call", "decoding request from %s: %v", r.RemoteAddr, err)
		_ = EncodeFault(buf, FaultMalformedCall, err.Error())
	} else {
		s.logger.Debugf("Remote:call", "%s from %s", c.Method, r.RemoteAddr)
		s.logger.Tracef("Remote:call", "%s with %d params", c.Method, len(c.Params))
		v, code, err := s.dispatch(c)
		if err != nil {
			_ = EncodeFault(buf, code, err.Error())
		} else if err := EncodeResponse(buf, v); err != nil {
			buf.Reset()
			_ = EncodeFault(buf, FaultInvalidParams, err.Error())
		}
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debugf("Remote:call", "writing response to %s: %v", r.RemoteAddr, err)
	}
}

func (s *Server) dispatch(c *Call) (any, int, error) { //nolint:cyclop
	switch c.Method {
	case "get_keyword_names":
		return s.runner.Names(), 0, nil
	case "get_library_information":
		return s.libraryInformation(), 0, nil
	case "get_keyword_arguments":
		name, err := nameParam(c)
		if err != nil {
			return nil, FaultInvalidParams, err
		}
		args, err := s.runner.Arguments(name)
		if err != nil {
			return nil, FaultInvalidParams, err //nolint:wrapcheck
		}
		return args, 0, nil
	case "get_keyword_documentation":
		name, err := nameParam(c)
		if err != nil {
			return nil, FaultInvalidParams, err
		}
		doc, err := s.runner.Documentation(name)
		if err != nil {
			return nil, FaultInvalidParams, err //nolint:wrapcheck
		}
		return doc, 0, nil
	case "get_keyword_tags":
		return []string{}, 0, nil
	case "run_keyword":
		return s.runKeyword(c)
	case "stop_remote_server":
		if !s.cfg.AllowStop {
			s.logger.Warnf("Remote:call", "refusing to stop, remote stops are disabled")
			return false, 0, nil
		}
		s.stopOnce.Do(func() { close(s.stop) })
		return true, 0, nil
	}
	return nil, FaultUnknownMethod, errors.Errorf("unknown method %q", c.Method)
}

func (s *Server) libraryInformation() map[string]any {
	info := make(map[string]any)
	for _, n := range s.runner.Names() {
		args, _ := s.runner.Arguments(n)
		doc, _ := s.runner.Documentation(n)
		info[n] = map[string]any{"args": args, "doc": doc, "tags": []string{}}
	}
	for _, n := range []string{"__intro__", "__init__"} {
		doc, _ := s.runner.Documentation(n)
		info[n] = map[string]any{"doc": doc}
	}
	return info
}

func nameParam(c *Call) (string, error) {
	if len(c.Params) < 1 {
		return "", errors.Errorf("%s expects a keyword name", c.Method)
	}
	name, ok := c.Params[0].(string)
	if !ok {
		return "", errors.Errorf("%s expects a keyword name, got %T", c.Method, c.Params[0])
	}
	return name, nil
}

// runKeyword runs a keyword and reports its outcome as a result struct.
// Keyword errors are results with the FAIL status, not faults.
func (s *Server) runKeyword(c *Call) (any, int, error) {
	name, err := nameParam(c)
	if err != nil {
		return nil, FaultInvalidParams, err
	}
	var (
		args   []any
		kwargs map[string]any
	)
	if len(c.Params) > 1 {
		var ok bool
		if args, ok = c.Params[1].([]any); !ok {
			return nil, FaultInvalidParams, errors.Errorf("run_keyword expects a list of arguments, got %T", c.Params[1])
		}
	}
	if len(c.Params) > 2 {
		var ok bool
		if kwargs, ok = c.Params[2].(map[string]any); !ok {
			return nil, FaultInvalidParams, errors.Errorf("run_keyword expects a struct of named arguments, got %T", c.Params[2])
		}
	}

	start := time.Now()
	ret, err := s.run(name, args, kwargs)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Debugf("Remote:run", "%s failed after %s: %v", name, elapsed, err)
		return map[string]any{
			"status":    "FAIL",
			"output":    "",
			"error":     err.Error(),
			"traceback": fmt.Sprintf("%+v", err),
		}, 0, nil
	}
	s.logger.Debugf("Remote:run", "%s passed in %s", name, elapsed)
	return map[string]any{
		"status": "PASS",
		"return": ret,
		"output": "",
	}, 0, nil
}

// run runs one keyword at a time. A panicking keyword fails instead of
// taking the server down with it.
func (s *Server) run(name string, args []any, kwargs map[string]any) (ret any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Remote:run", "%s panicked: %v", name, r)
			ret, err = nil, errors.Errorf("keyword %s panicked: %v", name, r)
		}
	}()

	return s.runner.Run(name, args, kwargs) //nolint:wrapcheck
}
