package native

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// cryptoModule ports the reference engine's crypto.rs digest/HMAC
// functions; no pack library wraps these stdlib-covered primitives, so
// crypto/md5, crypto/sha1, crypto/sha256, crypto/sha512, and crypto/hmac
// are used directly.
func cryptoModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"md5":          nf("md5", digestFn(md5.New)),
		"sha1":         nf("sha1", digestFn(sha1.New)),
		"sha256":       nf("sha256", digestFn(sha256.New)),
		"sha512":       nf("sha512", digestFn(sha512.New)),
		"hmac_sha256":  nf("hmac_sha256", hmacFn(sha256.New)),
		"hmac_sha512":  nf("hmac_sha512", hmacFn(sha512.New)),
	}
}

func digestFn(newHash func() hash.Hash) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("digest function takes exactly 1 argument (%d given)", len(args))
		}
		data, err := value.AsString(args[0])
		if err != nil {
			return nil, err
		}
		h := newHash()
		h.Write([]byte(data))
		return value.NewString(hex.EncodeToString(h.Sum(nil))), nil
	}
}

func hmacFn(newHash func() hash.Hash) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, berrors.NewArgumentError("hmac function takes exactly 2 arguments (%d given)", len(args))
		}
		key, err := value.AsString(args[0])
		if err != nil {
			return nil, err
		}
		message, err := value.AsString(args[1])
		if err != nil {
			return nil, err
		}

		keyBytes := []byte(key)
		if v, ok := kwargs["key_hex"]; ok && value.TruthyAsync(v) {
			decoded, err := hex.DecodeString(key)
			if err != nil {
				return nil, berrors.NewValueError("invalid hex key: %s", err.Error())
			}
			keyBytes = decoded
		}

		mac := hmac.New(newHash, keyBytes)
		mac.Write([]byte(message))
		return value.NewString(hex.EncodeToString(mac.Sum(nil))), nil
	}
}
