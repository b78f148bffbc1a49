package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
)

const maxLoggedLength = 1000

// DebugAll reports whether tests should print every RPC message.
func DebugAll() bool {
	return os.Getenv("DEBUG_LSP_ALL") == "1" || os.Getenv("DEBUG") == "1"
}

type rpcTestLogger struct {
	logger   zerolog.TestingLog
	rewrites map[string]string
	enabled  bool
	big      bool
}

var (
	_ jrpc2.RPCLogger = (*rpcTestLogger)(nil)
	_ PushLogger      = (*rpcTestLogger)(nil)
)

// NewTestLogger returns an RPC logger writing to a test log. It is silent
// unless DEBUG=1. Each key of rewrites is replaced by its value in output,
// which keeps temporary paths out of the logs.
func NewTestLogger(t zerolog.TestingLog, rewrites map[string]string) jrpc2.RPCLogger {
	return &rpcTestLogger{
		logger:   t,
		rewrites: rewrites,
		enabled:  DebugAll(),
		big:      os.Getenv("DEBUG_LSP_BIG") == "1",
	}
}

func (l *rpcTestLogger) LogRequest(_ context.Context, req *jrpc2.Request) {
	l.log("client request", req.ID(), req.Method(), req.ParamString())
}

func (l *rpcTestLogger) LogResponse(_ context.Context, res *jrpc2.Response) {
	if err := res.Error(); err != nil {
		l.log("server error", res.ID(), "", err.Error())
		return
	}
	l.log("server response", res.ID(), "", res.ResultString())
}

func (l *rpcTestLogger) LogPush(_ context.Context, method string, params any) {
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v", params))
	}
	l.log("server push", "", method, string(raw))
}

func (l *rpcTestLogger) log(kind, id, method, body string) {
	if !l.enabled {
		return
	}
	if len(body) > maxLoggedLength && !l.big {
		body = fmt.Sprintf("suppressed %d chars: set DEBUG_LSP_BIG=1 to see", len(body))
	}
	for k, v := range l.rewrites {
		body = strings.ReplaceAll(body, k, v)
	}
	if id == "" {
		id = "notification"
	}
	l.logger.Logf("%s id=%s method=%s %s", kind, id, method, body)
}
