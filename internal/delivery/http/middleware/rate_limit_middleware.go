package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"cottage-booking/config"
	"cottage-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitKeyPrefix = "rate_limit:"

// slidingWindowScript keeps one sorted-set member per accepted request, scored
// by its arrival time in milliseconds. Returns {1, 0} when the request is
// admitted, otherwise {0, score of the oldest request still in the window}.
//
// ARGV: now (ms), window start (ms), limit, member, window length (ms).
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])
	if redis.call('ZCARD', key) >= tonumber(ARGV[3]) then
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		return {0, tonumber(oldest[2])}
	end

	redis.call('ZADD', key, ARGV[1], ARGV[4])
	redis.call('PEXPIRE', key, ARGV[5])
	return {1, 0}
`)

// RateLimitMiddleware limits requests per client IP over a sliding window.
type RateLimitMiddleware struct {
	redisClient *redis.Client
	log         *logrus.Logger
	scope       string
	limit       int
	window      time.Duration
	trusted     []netip.Prefix
	now         func() time.Time
}

func NewRateLimitMiddleware(redisClient *redis.Client, log *logrus.Logger, scope string, cfg config.RateLimitConfig) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redisClient: redisClient,
		log:         log,
		scope:       scope,
		limit:       cfg.BookingRequests,
		window:      cfg.Window,
		trusted:     parseTrustedProxies(log, cfg.TrustedProxies),
		now:         time.Now,
	}
}

func parseTrustedProxies(log *logrus.Logger, entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				log.Warnf("Ignoring invalid trusted proxy %q: %v", entry, err)
				continue
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			log.Warnf("Ignoring invalid trusted proxy %q: %v", entry, err)
			continue
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := rateLimitKeyPrefix + m.scope + ":" + m.ClientIP(r)
		now := m.now().UnixMilli()
		windowMs := m.window.Milliseconds()
		res, err := slidingWindowScript.Run(r.Context(), m.redisClient, []string{key},
			now, now-windowMs, m.limit, uuid.NewString(), windowMs).Int64Slice()
		if err != nil {
			// Fail open: a Redis outage should not stop guests from booking.
			m.log.Warnf("Rate limit check failed for %s: %+v", key, err)
			next.ServeHTTP(w, r)
			return
		}

		if res[0] == 0 {
			retryAfter := time.Duration(res[1]+windowMs-now) * time.Millisecond
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			m.log.Infof("Rate limit exceeded: %s", key)
			response.TooManyRequests(w, "Too many booking requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the connecting peer. When the peer is a trusted proxy it
// walks X-Forwarded-For from the right and returns the first untrusted hop.
func (m *RateLimitMiddleware) ClientIP(r *http.Request) string {
	peer, ok := remoteAddr(r)
	if !ok {
		return r.RemoteAddr
	}
	if !m.isTrusted(peer) {
		return peer.String()
	}

	var hops []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(header, ",")...)
	}
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			// Anything left of a malformed entry is client controlled.
			return peer.String()
		}
		hop = hop.Unmap()
		if !m.isTrusted(hop) {
			return hop.String()
		}
	}
	return peer.String()
}

func (m *RateLimitMiddleware) isTrusted(addr netip.Addr) bool {
	for _, prefix := range m.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteAddr(r *http.Request) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
