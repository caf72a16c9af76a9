package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type redisReplyError string

func (e redisReplyError) Error() string { return string(e) }
func (redisReplyError) RedisError()     {}

type MockScripter struct {
	mock.Mock
}

func (m *MockScripter) reply(args mock.Arguments) *redis.Cmd {
	cmd := redis.NewCmd(context.Background())
	if err := args.Error(1); err != nil {
		cmd.SetErr(err)
		return cmd
	}
	cmd.SetVal(args.Get(0))
	return cmd
}

func (m *MockScripter) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return m.reply(m.Called(ctx, script, keys, args))
}

func (m *MockScripter) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return m.reply(m.Called(ctx, sha1, keys, args))
}

func (m *MockScripter) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return m.reply(m.Called(ctx, script, keys, args))
}

func (m *MockScripter) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return m.reply(m.Called(ctx, sha1, keys, args))
}

func (m *MockScripter) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(nil, errors.New("not used"))
}

func (m *MockScripter) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("", errors.New("not used"))
}

var (
	invoiceDay        = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	invoiceDayKey     = []string{"invoice:seq:20260314"}
	invoiceSeqTTLArgs = []interface{}{172800}
)

func TestFormatInvoiceNumber(t *testing.T) {
	day := time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "INV-20240305-0001", FormatInvoiceNumber(day, 1))
	assert.Equal(t, "INV-20240305-0420", FormatInvoiceNumber(day, 420))
	assert.Equal(t, "INV-20240305-12345", FormatInvoiceNumber(day, 12345))

	jakarta := time.FixedZone("WIB", 7*3600)
	assert.Equal(t, "INV-20240305-0002", FormatInvoiceNumber(time.Date(2024, 3, 6, 5, 0, 0, 0, jakarta), 2))
}

func TestInvoiceNumberGenerator_Next(t *testing.T) {
	scripter := new(MockScripter)
	scripter.On("EvalSha", mock.Anything, nextInvoiceSeqScript.Hash(), invoiceDayKey, invoiceSeqTTLArgs).
		Return(int64(7), nil)

	number, err := NewInvoiceNumberGenerator(scripter).Next(context.Background(), invoiceDay)

	require.NoError(t, err)
	assert.Equal(t, "INV-20260314-0007", number)
	scripter.AssertNotCalled(t, "Eval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceNumberGenerator_NextLoadsScriptOnFirstUse(t *testing.T) {
	scripter := new(MockScripter)
	scripter.On("EvalSha", mock.Anything, nextInvoiceSeqScript.Hash(), invoiceDayKey, invoiceSeqTTLArgs).
		Return(nil, redisReplyError("NOSCRIPT No matching script"))
	scripter.On("Eval", mock.Anything, mock.Anything, invoiceDayKey, invoiceSeqTTLArgs).
		Return(int64(1), nil)

	number, err := NewInvoiceNumberGenerator(scripter).Next(context.Background(), invoiceDay)

	require.NoError(t, err)
	assert.Equal(t, "INV-20260314-0001", number)
	scripter.AssertExpectations(t)
}

func TestInvoiceNumberGenerator_NextRedisDown(t *testing.T) {
	scripter := new(MockScripter)
	scripter.On("EvalSha", mock.Anything, mock.Anything, invoiceDayKey, invoiceSeqTTLArgs).
		Return(nil, errors.New("dial tcp: connection refused"))

	number, err := NewInvoiceNumberGenerator(scripter).Next(context.Background(), invoiceDay)

	assert.Empty(t, number)
	assert.ErrorContains(t, err, "next invoice sequence")
	assert.ErrorContains(t, err, "connection refused")
}
