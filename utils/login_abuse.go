package utils

import (
	"context"
	"strings"
	"time"

	"github.com/mizutamari/gallery/config"
)

// Brute-force protection for the shared-password login. Counters live in
// Redis and fail open: without Redis the token-bucket rate limiter is the
// only throttle.

func loginKey(parts ...string) string {
	return "login:" + strings.Join(parts, ":")
}

// LoginFailRecord increments this hour's failed-attempt counter for the IP
// and returns the current count.
func LoginFailRecord(ip string) int {
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := loginKey("failhour", ip, time.Now().Format("2006010215"))
	n, err := cli.Incr(ctx, key).Result()
	if err != nil {
		return 0
	}
	_ = cli.Expire(ctx, key, time.Hour).Err()
	return int(n)
}

// LoginFailCount returns this hour's failed-attempt count for the IP.
func LoginFailCount(ip string) int {
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := loginKey("failhour", ip, time.Now().Format("2006010215"))
	n, err := cli.Get(ctx, key).Int()
	if err != nil {
		return 0
	}
	return n
}

// LoginFailReset clears the failure counter after a successful login.
func LoginFailReset(ip string) {
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = cli.Del(ctx, loginKey("failhour", ip, time.Now().Format("2006010215"))).Err()
}

// LoginCaptchaRequired reports whether the IP has failed often enough that the
// login must carry a solved captcha.
func LoginCaptchaRequired(ip string) bool {
	threshold := config.Get().LoginCaptchaAfterFails
	if threshold <= 0 {
		return false
	}
	return LoginFailCount(ip) >= threshold
}

// LoginIsBanned checks temporary ban status for the IP.
func LoginIsBanned(ip string) bool {
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	exists, err := cli.Exists(ctx, loginKey("ban", ip)).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

// LoginBan sets a temporary ban for the IP.
func LoginBan(ip string) {
	minutes := config.Get().LoginTempBanMinutes
	if minutes <= 0 {
		minutes = 60
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = cli.Set(ctx, loginKey("ban", ip), "1", time.Duration(minutes)*time.Minute).Err()
}
