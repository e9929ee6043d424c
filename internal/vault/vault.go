// internal/vault/vault.go
//
// Vault client wrapper for linkbio.
//
// Context
// -------
//   - Provides a concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds background token renewal, KV-v2 reads, and per-key caching.
//   - Satisfies config.SecretResolver so `vault:` references in
//     conf/global.yaml are swapped for real values at boot.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                        // during boot.
//  2. pw,  err := cli.Resolve(ctx, "kv/linkbio/db#password")
//  3. pw,  err := cli.GetKV(ctx, "kv/linkbio/db", "password", time.Hour)
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// resolveTTL caches boot-time secrets for the life of a typical deploy.
const resolveTTL = time.Hour

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// ErrBadRef is returned for references without a "#key" suffix.
var ErrBadRef = errors.New("vault reference must look like <mount>/<path>#<key>")

// New constructs a client from VAULT_ADDR / VAULT_TOKEN and starts the
// token-renewal loop, which stops when ctx is cancelled.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	c := &Client{
		api:   apiCli,
		cache: make(map[string]cached),
	}
	go c.renewLoop(ctx)
	return c, nil
}

// Resolve reads "<mount>/<path>#<key>".
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", ErrBadRef
	}
	return c.GetKV(ctx, path, key, resolveTTL)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key
	if val, ok := c.fromCache(canonical); ok {
		return val, nil
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return sval, nil
}

func (c *Client) fromCache(canonical string) (string, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	cv, ok := c.cache[canonical]
	if !ok || time.Now().After(cv.exp) {
		return "", false
	}
	return cv.val, true
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	log := zap.S().Named("vault")
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("token renew self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token is not renewable, sleeping")
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
		})
		if err != nil {
			log.Warnw("lifetime watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		c.watch(ctx, watcher)
	}
}

// watch blocks until the watcher stops or ctx ends.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				zap.S().Warnw("vault token renewal stopped", "err", err)
			}
			backoff(ctx, 15*time.Second)
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				zap.S().Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return mount, rel
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
