// internal/adapters/booking/client.go
package booking

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"trip_category/internal/adapters/observability"
	"trip_category/internal/domain"
)

const service = "booking"

var (
	ErrNotFound     = fmt.Errorf("booking: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("booking: unauthorized")
	ErrForbidden    = errors.New("booking: forbidden")
	ErrConflict     = errors.New("booking: conflict")
)

// Client talks to the booking service that owns trips, offers and inventory.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("booking base URL is required")
	}
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) GetTripModule(ctx context.Context, ref domain.ModuleRef) (domain.TripModule, error) {
	var out tripModuleDTO
	if err := c.do(ctx, http.MethodGet, c.moduleURL(ref, ""), "module", "", nil, &out); err != nil {
		return domain.TripModule{}, err
	}
	return mapTripModule(ref, out), nil
}

func (c *Client) GetRoomCategories(ctx context.Context, ref domain.ModuleRef) ([]domain.HotelCategoryGroup, error) {
	var out offerDTO
	if err := c.do(ctx, http.MethodGet, c.moduleURL(ref, "/offer"), "offer", "", nil, &out); err != nil {
		return nil, err
	}
	return mapRoomCategories(out), nil
}

// ChangeRooms requests the module's rooms be rebooked as rooms. One
// idempotency key covers all retries of the call.
func (c *Client) ChangeRooms(ctx context.Context, ref domain.ModuleRef, rooms []domain.RoomOffer) (domain.ChangeReceipt, error) {
	body, err := json.Marshal(newChangeRoomsDTO(rooms))
	if err != nil {
		return domain.ChangeReceipt{}, err
	}
	var out changeReceiptDTO
	if err := c.do(ctx, http.MethodPut, c.moduleURL(ref, "/rooms"), "rooms", uuid.NewString(), body, &out); err != nil {
		return domain.ChangeReceipt{}, err
	}
	return out.toDomain(), nil
}

// ---- Internals ----

func (c *Client) moduleURL(ref domain.ModuleRef, suffix string) string {
	return fmt.Sprintf("%s/trips/%s/modules/%s%s", c.base,
		url.PathEscape(ref.TripID), url.PathEscape(ref.ModuleID), suffix)
}

// do performs a request with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) do(ctx context.Context, method, target, endpoint, idemKey string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, rd)
		if err != nil {
			return err
		}
		req.Header.Set("X-API-Key", c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "trip-category/1.0")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idemKey != "" {
			req.Header.Set("Idempotency-Key", idemKey)
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", i+1).
				Str("err_type", observability.LabelErr(err)).Msg("booking request failed")
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusConflict:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: %s", ErrConflict, strings.TrimSpace(string(b)))

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 100ms doubling per attempt plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
