package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/walteh/spinasm-lsp/pkg/debug"
)

// MultiRPCLogger fans jrpc2 request logs out to several loggers.
type MultiRPCLogger struct {
	mu      sync.Mutex
	loggers []jrpc2.RPCLogger
}

var (
	_ jrpc2.RPCLogger = (*MultiRPCLogger)(nil)
	_ PushLogger      = (*MultiRPCLogger)(nil)
)

func NewMultiRPCLogger(loggers ...jrpc2.RPCLogger) *MultiRPCLogger {
	m := &MultiRPCLogger{}
	for _, l := range loggers {
		m.AddLogger(l)
	}
	return m
}

func (m *MultiRPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logger := range m.loggers {
		logger.LogRequest(ctx, req)
	}
}

func (m *MultiRPCLogger) LogResponse(ctx context.Context, resp *jrpc2.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logger := range m.loggers {
		logger.LogResponse(ctx, resp)
	}
}

func (m *MultiRPCLogger) LogPush(ctx context.Context, method string, params any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logger := range m.loggers {
		if pl, ok := logger.(PushLogger); ok {
			pl.LogPush(ctx, method, params)
		}
	}
}

func (m *MultiRPCLogger) AddLogger(logger jrpc2.RPCLogger) {
	if logger == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggers = append(m.loggers, logger)
}

var myLoggerId = xid.New().String()

// ApplyServerInstanceToZerolog replaces the context logger with one that
// writes to the client as window/logMessage, keeping the current level.
func ApplyServerInstanceToZerolog(ctx context.Context, client Client) context.Context {
	writer := &logWriter{
		client: client,
		ctx:    ctx,
	}

	level := zerolog.Ctx(ctx).GetLevel()

	return zerolog.New(writer).With().
		Str("id", myLoggerId).
		Logger().
		Level(level).
		Hook(debug.CustomTimeHook{}).
		Hook(debug.CustomCallerHook{}).
		WithContext(ctx)
}

func ApplyRequestToZerolog(ctx context.Context, req *jrpc2.Request) context.Context {
	lc := zerolog.Ctx(ctx).With().Str("rpc_method", req.Method())
	if id := req.ID(); id != "" {
		lc = lc.Str("rpc_id", id)
	}
	return lc.Logger().WithContext(ctx)
}

type logWriter struct {
	client Client
	mu     sync.Mutex
	ctx    context.Context
}

// Write turns one zerolog JSON line into a window/logMessage notification.
// Delivery failures are dropped so that logging never fails a handler.
func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var entry map[string]any
	if err := json.Unmarshal(p, &entry); err != nil {
		return len(p), nil
	}

	params := &LogMessageParams{
		Type:    MessageTypeForLevel(extractField(entry, "level", "info")),
		Message: FormatLogEntry(entry),
	}

	if w.client != nil {
		_ = w.client.LogMessage(w.ctx, params)
	}

	return len(p), nil
}

// FormatLogEntry renders a decoded zerolog entry as "message key=value ...",
// with keys sorted. The level, time and logger id fields are dropped.
func FormatLogEntry(entry map[string]any) string {
	msg := extractField(entry, "message", "")
	delete(entry, "level")
	delete(entry, "time")
	delete(entry, "id")

	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(msg)
	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", k, entry[k])
	}
	return sb.String()
}

func extractField(entry map[string]any, key, defaultValue string) string {
	if v, ok := entry[key].(string); ok {
		delete(entry, key)
		return v
	}
	return defaultValue
}

// MessageTypeForLevel maps a zerolog level name to an LSP MessageType.
func MessageTypeForLevel(level string) MessageType {
	switch level {
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return Error
	case zerolog.LevelWarnValue:
		return Warning
	case zerolog.LevelInfoValue:
		return Info
	default:
		return Log
	}
}
