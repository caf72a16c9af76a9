package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for the per-day invoice sequence
	RedisInvoiceSeqKeyPrefix = "invoice:seq:"

	// Sequence keys outlive their day so late retries never restart at 1.
	invoiceSeqTTL = 48 * time.Hour
)

// nextInvoiceSeqScript increments the day's counter and sets its expiry on first use,
// in one round trip so two instances can never observe the same value.
var nextInvoiceSeqScript = redis.NewScript(`
	local seq = redis.call('INCR', KEYS[1])
	if seq == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return seq
`)

// InvoiceNumberGenerator hands out invoice numbers of the form INV-YYYYMMDD-NNNN.
type InvoiceNumberGenerator interface {
	Next(ctx context.Context, day time.Time) (string, error)
}

type redisInvoiceNumberGenerator struct {
	redisClient redis.Scripter
}

func NewInvoiceNumberGenerator(redisClient redis.Scripter) InvoiceNumberGenerator {
	return &redisInvoiceNumberGenerator{redisClient: redisClient}
}

func (g *redisInvoiceNumberGenerator) Next(ctx context.Context, day time.Time) (string, error) {
	key := RedisInvoiceSeqKeyPrefix + day.UTC().Format("20060102")
	seq, err := nextInvoiceSeqScript.Run(ctx, g.redisClient, []string{key}, int(invoiceSeqTTL.Seconds())).Int64()
	if err != nil {
		return "", fmt.Errorf("next invoice sequence: %w", err)
	}
	return FormatInvoiceNumber(day, seq), nil
}

// FormatInvoiceNumber renders INV-YYYYMMDD-NNNN; sequences past 9999 keep all digits.
func FormatInvoiceNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%04d", day.UTC().Format("20060102"), seq)
}
