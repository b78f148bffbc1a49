// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"context"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
)

var (
	RequestCancelledError = &jrpc2.Error{Code: -32800, Message: "JSON RPC cancelled"}
)

// PushLogger is implemented by RPC loggers that also want to see
// server-initiated notifications and callbacks.
type PushLogger interface {
	LogPush(ctx context.Context, method string, params any)
}

// CallbackClient sends notifications and callbacks from the server to the client.
type CallbackClient struct {
	serverOpts *jrpc2.ServerOptions
	client     *jrpc2.Server
}

var _ Client = (*CallbackClient)(nil)

func NewCallbackClient(server *jrpc2.Server, serverOpts *jrpc2.ServerOptions) *CallbackClient {
	return &CallbackClient{client: server, serverOpts: serverOpts}
}

func (c *CallbackClient) logPush(ctx context.Context, method string, params any) {
	if c.serverOpts == nil {
		return
	}
	if pl, ok := c.serverOpts.RPCLog.(PushLogger); ok {
		pl.LogPush(ctx, method, params)
	}
}

func (c *CallbackClient) Notify(ctx context.Context, method string, params any) error {
	c.logPush(ctx, method, params)
	return c.client.Notify(ctx, method, params)
}

func (c *CallbackClient) Callback(ctx context.Context, method string, params any) (*jrpc2.Response, error) {
	c.logPush(ctx, method, params)
	return c.client.Callback(ctx, method, params)
}

// CallbackServer drives a server from the client side of a connection.
type CallbackServer struct {
	server *jrpc2.Client
}

var _ Server = (*CallbackServer)(nil)

func NewCallbackServer(client *jrpc2.Client) *CallbackServer {
	return &CallbackServer{server: client}
}

func (c *CallbackServer) Notify(ctx context.Context, method string, params any) error {
	return c.server.Notify(ctx, method, params)
}

func (c *CallbackServer) Callback(ctx context.Context, method string, params any) (*jrpc2.Response, error) {
	return c.server.Call(ctx, method, params)
}

func (c *CallbackServer) Close() error {
	return c.server.Close()
}

// NewServerServer builds a jrpc2 server dispatching to server. Every handler
// context carries a logger that forwards to the client as window/logMessage.
func NewServerServer(ctx context.Context, server Server, opts *jrpc2.ServerOptions) (*jrpc2.Server, *CallbackClient) {
	methods := buildServerDispatchMap(server)
	methods["$/cancelRequest"] = handler.Func(cancelRequest)

	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}

	opts.AllowPush = true

	var callbackClient *CallbackClient

	opts.NewContext = func() context.Context {
		if callbackClient == nil {
			return ctx
		}
		return ApplyServerInstanceToZerolog(ctx, callbackClient)
	}

	result := jrpc2.NewServer(methods, opts)

	callbackClient = NewCallbackClient(result, opts)

	return result, callbackClient
}

// cancelRequest handles $/cancelRequest. LSP ids may be numbers or strings,
// jrpc2 keys in-flight requests by their textual id.
func cancelRequest(ctx context.Context, req *jrpc2.Request) (any, error) {
	var params CancelParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, newParseError(err)
	}
	id := strings.Trim(strings.TrimSpace(string(params.ID)), `"`)
	if id == "" {
		return nil, nil
	}
	if srv := jrpc2.ServerFromContext(ctx); srv != nil {
		srv.CancelRequest(id)
	}
	return nil, nil
}

func NonNilSlice[T any](x []T) []T {
	if x == nil {
		return []T{}
	}
	return x
}

func newParseError(err error) *jrpc2.Error {
	return &jrpc2.Error{
		Code:    -32700, // Parse error
		Message: err.Error(),
	}
}

func checkCancelled(ctx context.Context) error {
	if ctx.Err() != nil {
		return RequestCancelledError
	}
	return nil
}

func createHandler[T any, O any](method func(ctx context.Context, params *T) (O, error)) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (any, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		result, err := method(ctx, &params)
		if err != nil {
			return nil, err
		}
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		return result, nil
	})
}

func createEmptyResultHandler[T any](method func(ctx context.Context, params *T) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (any, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		var params T
		if r.HasParams() {
			if err := r.UnmarshalParams(&params); err != nil {
				return nil, newParseError(err)
			}
		}
		return nil, method(ctx, &params)
	})
}

func createEmptyHandler(method func(ctx context.Context) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (any, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		return nil, method(ctx)
	})
}

type Callbacker interface {
	Callback(ctx context.Context, method string, params any) (*jrpc2.Response, error)
	Notify(ctx context.Context, method string, params any) error
}

func createCallback[I any, O any](ctx context.Context, client Callbacker, method string, params *I, result *O) error {
	res, err := client.Callback(ctx, method, params)
	if err != nil {
		return err
	}
	if result != nil {
		return res.UnmarshalResult(result)
	}
	return nil
}

func createEmptyCallback(ctx context.Context, client Callbacker, method string) error {
	_, err := client.Callback(ctx, method, nil)
	return err
}

func createNotify[I any](ctx context.Context, client Callbacker, method string, params *I) error {
	return client.Notify(ctx, method, params)
}

func createEmptyNotify(ctx context.Context, client Callbacker, method string) error {
	return client.Notify(ctx, method, nil)
}

// RawParams decodes the params of a pushed request, used by client-side
// notification handlers.
func RawParams[T any](req *jrpc2.Request) (*T, error) {
	var v T
	if err := req.UnmarshalParams(&v); err != nil {
		return nil, err
	}
	return &v, nil
}
