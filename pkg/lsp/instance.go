package lsp

import (
	"context"
	"io"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/lsp/protocol"
)

// Instance is a Server bound to a jrpc2 connection.
type Instance struct {
	server *Server
	rpc    *jrpc2.Server
	client *protocol.CallbackClient
}

// BuildServerInstance wires s into a jrpc2 server. Notifications the server
// sends go back over the same connection.
func (s *Server) BuildServerInstance(ctx context.Context, opts *jrpc2.ServerOptions) *Instance {
	rpc, client := protocol.NewServerServer(ctx, s, opts)
	s.SetCallbackClient(client)
	return &Instance{server: s, rpc: rpc, client: client}
}

// StartAndWait serves LSP framed messages on r and w until the client exits
// or the connection closes.
func (i *Instance) StartAndWait(r io.Reader, w io.WriteCloser) error {
	i.rpc.Start(channel.LSP(r, w))
	if err := i.rpc.Wait(); err != nil && !errors.Is(err, io.EOF) {
		return errors.Errorf("serving: %w", err)
	}
	return nil
}

// Start serves on an existing channel, such as one end of channel.Direct.
func (i *Instance) Start(ch channel.Channel) {
	i.rpc.Start(ch)
}

func (i *Instance) Stop() {
	i.rpc.Stop()
}

func (i *Instance) Server() *Server {
	return i.server
}

// RPCLogger logs every request and response at trace level.
type RPCLogger struct {
	logger zerolog.Logger
}

var _ jrpc2.RPCLogger = (*RPCLogger)(nil)

func NewRPCLogger(ctx context.Context) *RPCLogger {
	return &RPCLogger{logger: zerolog.Ctx(ctx).With().Str("component", "rpc").Logger()}
}

func (l *RPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	l.logger.Trace().
		Str("method", req.Method()).
		Str("id", req.ID()).
		RawJSON("params", []byte(orNull(req.ParamString()))).
		Msg("request")
}

func (l *RPCLogger) LogResponse(ctx context.Context, rsp *jrpc2.Response) {
	ev := l.logger.Trace().Str("id", rsp.ID())
	if err := rsp.Error(); err != nil {
		ev = ev.Err(err)
	} else {
		ev = ev.RawJSON("result", []byte(orNull(rsp.ResultString())))
	}
	ev.Msg("response")
}

func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}
