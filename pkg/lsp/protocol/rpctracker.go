package protocol

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"gitlab.com/tozd/go/errors"
)

type Direction string

const (
	Incoming Direction = "incoming"
	Outgoing Direction = "outgoing"
	Pushed   Direction = "pushed"
)

// RPCMessage is one message seen by an RPCTracker.
type RPCMessage struct {
	Direction Direction
	Method    string
	ID        string
	Params    json.RawMessage
	Result    json.RawMessage
	Error     *jrpc2.Error
	Time      time.Time
}

// UnmarshalParams decodes the params of a request or push.
func (m RPCMessage) UnmarshalParams(v any) error {
	if len(m.Params) == 0 {
		return errors.Errorf("message %s has no params", m.Method)
	}
	return json.Unmarshal(m.Params, v)
}

// RPCTracker records what a server receives, answers and pushes. It is
// installed as the server's RPCLog.
type RPCTracker struct {
	mu sync.RWMutex

	messages     []RPCMessage
	subs         map[chan RPCMessage]struct{}
	knownMethods map[string]string
}

var (
	_ jrpc2.RPCLogger = (*RPCTracker)(nil)
	_ PushLogger      = (*RPCTracker)(nil)
)

func NewRPCTracker() *RPCTracker {
	return &RPCTracker{
		subs:         make(map[chan RPCMessage]struct{}),
		knownMethods: make(map[string]string),
	}
}

func (t *RPCTracker) LogRequest(_ context.Context, req *jrpc2.Request) {
	if id := req.ID(); id != "" {
		t.mu.Lock()
		t.knownMethods[id] = req.Method()
		t.mu.Unlock()
	}
	t.Track(RPCMessage{
		Direction: Incoming,
		Method:    req.Method(),
		ID:        req.ID(),
		Params:    json.RawMessage(req.ParamString()),
	})
}

func (t *RPCTracker) LogResponse(_ context.Context, resp *jrpc2.Response) {
	t.mu.Lock()
	method := t.knownMethods[resp.ID()]
	delete(t.knownMethods, resp.ID())
	t.mu.Unlock()

	t.Track(RPCMessage{
		Direction: Outgoing,
		Method:    method,
		ID:        resp.ID(),
		Result:    json.RawMessage(resp.ResultString()),
		Error:     resp.Error(),
	})
}

func (t *RPCTracker) LogPush(_ context.Context, method string, params any) {
	raw, err := json.Marshal(params)
	if err != nil {
		raw = nil
	}
	t.Track(RPCMessage{
		Direction: Pushed,
		Method:    method,
		Params:    raw,
	})
}

// Track stores msg and offers it to every subscriber without blocking.
func (t *RPCTracker) Track(msg RPCMessage) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	msg.Time = time.Now()
	t.messages = append(t.messages, msg)

	for ch := range t.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (t *RPCTracker) Messages() []RPCMessage {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.messages)
}

// MessagesSinceLike returns the messages tracked at or after since that
// satisfy predicate.
func (t *RPCTracker) MessagesSinceLike(since time.Time, predicate func(RPCMessage) bool) []RPCMessage {
	return slices.DeleteFunc(t.Messages(), func(msg RPCMessage) bool {
		return msg.Time.Before(since) || !predicate(msg)
	})
}

func (t *RPCTracker) Clear() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}

func (t *RPCTracker) subscribe() (chan RPCMessage, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan RPCMessage, 64)
	t.subs[ch] = struct{}{}

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, ch)
	}
}

// WaitFor blocks until count messages tracked at or after since satisfy
// predicate, or ctx ends.
func (t *RPCTracker) WaitFor(ctx context.Context, since time.Time, count int, predicate func(RPCMessage) bool) ([]RPCMessage, error) {
	ch, unsub := t.subscribe()
	defer unsub()

	seen := t.MessagesSinceLike(since, predicate)
	if len(seen) >= count {
		return seen, nil
	}

	for {
		select {
		case <-ch:
			seen = t.MessagesSinceLike(since, predicate)
			if len(seen) >= count {
				return seen, nil
			}
		case <-ctx.Done():
			return seen, errors.Errorf("waiting for %d messages, got %d: %w", count, len(seen), ctx.Err())
		}
	}
}

// IsPush matches pushed notifications for method.
func IsPush(method string) func(RPCMessage) bool {
	return func(m RPCMessage) bool {
		return m.Direction == Pushed && m.Method == method
	}
}
