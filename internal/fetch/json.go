// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrDecode indicates a cached or fetched document is not valid JSON for the target type.
var ErrDecode = errors.New("decoding document")

// GetJSON returns the document at url decoded as T, using path as its cache.
//
// Resolution order:
//  1. cached bytes that verify against a supplied hash are decoded directly;
//  2. without a hash and with validFor > 0, cached bytes modified no longer than validFor ago are
//     decoded directly;
//  3. otherwise the document is fetched, verified, persisted and decoded;
//  4. if the fetch fails with ErrNetwork and cached bytes exist, those stale
//     bytes are decoded instead.
//
// A hash mismatch on a fetched document is returned as is; it never falls back
// to the cache.
func GetJSON[T any](ctx context.Context, c *Client, rawURL, path string, hash Hash, validFor time.Duration) (T, error) {
	var zero T

	cached, readErr := os.ReadFile(path)
	haveCache := readErr == nil

	if haveCache && hash.IsSet() && hash.Verify(cached) {
		c.logger.Debug("cache hit", "path", path, "reason", "hash")
		return decode[T](path, cached)
	}

	if haveCache && !hash.IsSet() && validFor > 0 {
		if info, err := os.Stat(path); err == nil && c.clock.Now().Sub(info.ModTime()) <= validFor {
			c.logger.Debug("cache hit", "path", path, "reason", "fresh")
			return decode[T](path, cached)
		}
	}

	data, err := c.get(ctx, rawURL)
	if err != nil {
		if haveCache && errors.Is(err, ErrNetwork) {
			c.logger.Warn("using stale cache", "path", path, "err", err)
			return decode[T](path, cached)
		}
		return zero, err
	}

	if !hash.Verify(data) {
		return zero, mismatch(rawURL, hash, data)
	}

	value, err := decode[T](redactURL(rawURL), data)
	if err != nil {
		return zero, err
	}

	if err := WriteAtomic(path, data); err != nil {
		return zero, err
	}
	c.logger.Info("downloaded", "url", redactURL(rawURL), "bytes", len(data))
	return value, nil
}

func decode[T any](source string, data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w %s: %w", ErrDecode, source, err)
	}
	return v, nil
}
