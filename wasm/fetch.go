//go:build js && wasm

// Package wasm carries the browser transport used by the js/wasm build.
package wasm

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"syscall/js"
)

// FetchClient implements api.HTTPClient on top of the JavaScript fetch API
type FetchClient struct{}

// NewFetchClient creates a new fetch-backed HTTP client
func NewFetchClient() *FetchClient {
	return &FetchClient{}
}

// Do sends req through fetch and waits for the full response body
func (c *FetchClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		req.Body.Close()
	}

	opts := js.Global().Get("Object").New()
	opts.Set("method", req.Method)

	headers := js.Global().Get("Object").New()
	for key := range req.Header {
		headers.Set(key, req.Header.Get(key))
	}
	opts.Set("headers", headers)

	if len(body) > 0 {
		buf := js.Global().Get("Uint8Array").New(len(body))
		js.CopyBytesToJS(buf, body)
		opts.Set("body", buf)
	}

	resp, err := await(js.Global().Call("fetch", req.URL.String(), opts))
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	respHeader := make(http.Header)
	collect := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		respHeader.Add(args[1].String(), args[0].String())
		return nil
	})
	resp.Get("headers").Call("forEach", collect)
	collect.Release()

	arrayBuffer, err := await(resp.Call("arrayBuffer"))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	view := js.Global().Get("Uint8Array").New(arrayBuffer)
	respBody := make([]byte, view.Get("length").Int())
	js.CopyBytesToGo(respBody, view)

	status := resp.Get("status").Int()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, resp.Get("statusText").String()),
		StatusCode:    status,
		Header:        respHeader,
		Body:          io.NopCloser(bytes.NewReader(respBody)),
		ContentLength: int64(len(respBody)),
		Request:       req,
	}, nil
}

// await blocks until promise settles
func await(promise js.Value) (js.Value, error) {
	type result struct {
		value js.Value
		err   error
	}
	done := make(chan result, 1)

	onSuccess := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		done <- result{value: args[0]}
		return nil
	})
	defer onSuccess.Release()

	onError := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		msg := "unknown error"
		if len(args) > 0 {
			msg = args[0].Call("toString").String()
		}
		done <- result{err: fmt.Errorf("%s", msg)}
		return nil
	})
	defer onError.Release()

	promise.Call("then", onSuccess).Call("catch", onError)

	r := <-done
	return r.value, r.err
}
