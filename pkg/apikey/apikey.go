// Package apikey guards fiber routes with static API keys.
package apikey

import (
	"crypto/subtle"
	"errors"

	"github.com/dave-gray101/v2keyauth"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// Sources are where a raw key is looked up after the Authorization header.
var Sources = []string{"header:x-api-key", "header:apikey"}

// New returns a middleware accepting requests that carry one of keys as a
// Bearer token or key header. Rejected requests are answered by denied.
func New(keys []string, denied fiber.Handler) (fiber.Handler, error) {
	if len(keys) == 0 {
		return nil, errors.New("no API keys configured")
	}
	cfg, err := Config(keys, denied)
	if err != nil {
		return nil, err
	}
	return v2keyauth.New(*cfg), nil
}

func Config(keys []string, denied fiber.Handler) (*v2keyauth.Config, error) {
	customLookup, err := lookup()
	if err != nil {
		return nil, err
	}

	return &v2keyauth.Config{
		CustomKeyLookup: customLookup,
		Validator:       validator(keys),
		ErrorHandler:    errorHandler(denied),
		AuthScheme:      "Bearer",
	}, nil
}

// lookup reads a Bearer token from Authorization, then a bare key from
// each of Sources.
func lookup() (v2keyauth.KeyLookupFunc, error) {
	bearer, err := v2keyauth.DefaultKeyLookup("header:Authorization", keyauth.ConfigDefault.AuthScheme)
	if err != nil {
		return nil, err
	}
	extractors := []v2keyauth.KeyLookupFunc{bearer}
	for _, src := range Sources {
		raw, err := v2keyauth.DefaultKeyLookup(src, "")
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, raw)
	}
	return func(c *fiber.Ctx) (string, error) {
		for _, extract := range extractors {
			if key, err := extract(c); err == nil && key != "" {
				return key, nil
			}
		}
		return "", v2keyauth.ErrMissingOrMalformedAPIKey
	}, nil
}

func errorHandler(denied fiber.Handler) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, v2keyauth.ErrMissingOrMalformedAPIKey) {
			c.Set("WWW-Authenticate", "Bearer")
			if denied != nil {
				return denied(c)
			}
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return err
	}
}

func validator(keys []string) func(*fiber.Ctx, string) (bool, error) {
	return func(c *fiber.Ctx, key string) (bool, error) {
		for _, valid := range keys {
			if subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
				return true, nil
			}
		}
		return false, v2keyauth.ErrMissingOrMalformedAPIKey
	}
}
