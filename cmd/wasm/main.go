//go:build js && wasm

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/mixinsafe/safeclient/api"
	"github.com/mixinsafe/safeclient/auth"
	"github.com/mixinsafe/safeclient/config"
	"github.com/mixinsafe/safeclient/keys"
	"github.com/mixinsafe/safeclient/pin"
	"github.com/mixinsafe/safeclient/tip"
	"github.com/mixinsafe/safeclient/wasm"
)

func main() {
	c := make(chan struct{})

	js.Global().Set("safeSignToken", js.FuncOf(signTokenWrapper))
	js.Global().Set("safeTipBody", js.FuncOf(tipBodyWrapper))
	js.Global().Set("safeEncryptPin", js.FuncOf(encryptPinWrapper))
	js.Global().Set("safeVerifyTip", js.FuncOf(verifyTIPWrapper))

	println("safe-client WASM loaded")

	<-c
}

// result is handed back to JavaScript as {value, error}
func result(value string, err error) interface{} {
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	return map[string]interface{}{"value": value}
}

func stringArgs(args []js.Value, n int) ([]string, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	out := make([]string, n)
	for i := range out {
		out[i] = args[i].String()
	}
	return out, nil
}

func stringArray(v js.Value) ([]string, error) {
	if !js.Global().Get("Array").Call("isArray", v).Bool() {
		return nil, fmt.Errorf("fields must be an array, got %s", v.Type())
	}
	out := make([]string, v.Length())
	for i := range out {
		out[i] = v.Index(i).String()
	}
	return out, nil
}

func tipBody(tag, fields js.Value) ([]byte, error) {
	if !tip.IsKnownTag(tag.String()) {
		return nil, fmt.Errorf("unknown tag %q", tag.String())
	}
	values, err := stringArray(fields)
	if err != nil {
		return nil, err
	}
	return tip.Body(tag.String(), values...), nil
}

// signTokenWrapper: safeSignToken(keystoreJSON, method, uri, body)
func signTokenWrapper(this js.Value, args []js.Value) interface{} {
	in, err := stringArgs(args, 4)
	if err != nil {
		return result("", err)
	}
	user, err := keys.ParseSafeUser([]byte(in[0]))
	if err != nil {
		return result("", err)
	}
	return result(auth.SignAuthenticationToken(in[1], in[2], []byte(in[3]), user))
}

// tipBodyWrapper: safeTipBody(tag, fields[])
func tipBodyWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return result("", fmt.Errorf("expected 2 arguments, got %d", len(args)))
	}
	body, err := tipBody(args[0], args[1])
	if err != nil {
		return result("", err)
	}
	return result(hex.EncodeToString(body), nil)
}

// encryptPinWrapper: safeEncryptPin(keystoreJSON, tag, fields[], iterator)
func encryptPinWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return result("", fmt.Errorf("expected 4 arguments, got %d", len(args)))
	}
	user, err := keys.ParseSafeUser([]byte(args[0].String()))
	if err != nil {
		return result("", err)
	}
	body, err := tipBody(args[1], args[2])
	if err != nil {
		return result("", err)
	}
	signature, err := tip.Sign(body, user.SpendPrivateKey, user.IsSpendPrivateSum)
	if err != nil {
		return result("", err)
	}
	// JavaScript numbers lose precision past 2^53, so the iterator comes as a decimal string.
	var iterator uint64
	if _, err := fmt.Sscan(args[3].String(), &iterator); err != nil {
		return result("", fmt.Errorf("invalid iterator: %w", err))
	}
	return result(pin.Encrypt(signature, iterator, user))
}

// verifyTIPWrapper: safeVerifyTip(keystoreJSON, apiHost) returns a Promise
func verifyTIPWrapper(this js.Value, args []js.Value) interface{} {
	in, argErr := stringArgs(args, 2)

	var handler js.Func
	handler = js.FuncOf(func(this js.Value, promiseArgs []js.Value) interface{} {
		resolve := promiseArgs[0]
		reject := promiseArgs[1]

		go func() {
			defer handler.Release()
			if argErr != nil {
				reject.Invoke(js.ValueOf(argErr.Error()))
				return
			}
			out, err := verifyTIP(in[0], in[1])
			if err != nil {
				reject.Invoke(js.ValueOf(err.Error()))
				return
			}
			resolve.Invoke(js.ValueOf(out))
		}()

		return nil
	})

	return js.Global().Get("Promise").New(handler)
}

func verifyTIP(keystoreJSON, apiHost string) (string, error) {
	user, err := keys.ParseSafeUser([]byte(keystoreJSON))
	if err != nil {
		return "", err
	}

	cfg := &config.Config{APIHost: apiHost}
	if err := cfg.FixupAndValidate(); err != nil {
		return "", err
	}

	client, err := api.NewClient(cfg, wasm.NewFetchClient(), keys.NewMemoryKeyProvider(user))
	if err != nil {
		return "", err
	}

	me, err := client.VerifyTIP(context.Background())
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(me)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
