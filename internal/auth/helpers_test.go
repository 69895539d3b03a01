package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"session-auth/internal/config"
	"session-auth/internal/session"
	"session-auth/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var errBoom = errors.New("boom")

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// faultStore fails the named operations and forwards everything else.
type faultStore struct {
	session.Store
	fail map[string]error
}

func (f *faultStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := f.fail["Get"]; err != nil {
		return "", false, err
	}
	return f.Store.Get(ctx, key)
}

func (f *faultStore) SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := f.fail["SetWithExpiry"]; err != nil {
		return err
	}
	return f.Store.SetWithExpiry(ctx, key, value, ttl)
}

func (f *faultStore) Delete(ctx context.Context, key string) error {
	if err := f.fail["Delete"]; err != nil {
		return err
	}
	return f.Store.Delete(ctx, key)
}

func (f *faultStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := f.fail["Expire"]; err != nil {
		return err
	}
	return f.Store.Expire(ctx, key, ttl)
}

func (f *faultStore) AddToOrderedSet(ctx context.Context, setKey, member string, score float64) error {
	if err := f.fail["AddToOrderedSet"]; err != nil {
		return err
	}
	return f.Store.AddToOrderedSet(ctx, setKey, member, score)
}

func (f *faultStore) RemoveFromOrderedSet(ctx context.Context, setKey, member string) error {
	if err := f.fail["RemoveFromOrderedSet"]; err != nil {
		return err
	}
	return f.Store.RemoveFromOrderedSet(ctx, setKey, member)
}

func (f *faultStore) RemoveFromOrderedSetByScore(ctx context.Context, setKey string, min, max float64) (int64, error) {
	if err := f.fail["RemoveFromOrderedSetByScore"]; err != nil {
		return 0, err
	}
	return f.Store.RemoveFromOrderedSetByScore(ctx, setKey, min, max)
}

func (f *faultStore) OrderedSetSize(ctx context.Context, setKey string) (int64, error) {
	if err := f.fail["OrderedSetSize"]; err != nil {
		return 0, err
	}
	return f.Store.OrderedSetSize(ctx, setKey)
}

func (f *faultStore) OrderedSetRangeAscending(ctx context.Context, setKey string, start, stop int64) ([]string, error) {
	if err := f.fail["OrderedSetRangeAscending"]; err != nil {
		return nil, err
	}
	return f.Store.OrderedSetRangeAscending(ctx, setKey, start, stop)
}

func (f *faultStore) DeleteOrderedSet(ctx context.Context, setKey string) error {
	if err := f.fail["DeleteOrderedSet"]; err != nil {
		return err
	}
	return f.Store.DeleteOrderedSet(ctx, setKey)
}

type testEnv struct {
	m     *Manager
	mr    *miniredis.Miniredis
	fault *faultStore
	clock *testClock
	cfg   config.AuthConfig
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:       "test-secret",
		Algorithm:       "HS256",
		Issuer:          "session-auth-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 14 * 24 * time.Hour,
		MaxDevices:      3,
		DevicePolicy:    config.DevicePolicyEvict,
	}
}

func newTestEnv(t *testing.T, mutate ...func(*config.AuthConfig)) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	cfg := testAuthConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}

	clock := &testClock{t: time.Unix(1700000000, 0).UTC()}
	fault := &faultStore{Store: session.NewRedisStore(rdb), fail: map[string]error{}}

	seq := 0
	m, err := NewManager(cfg, fault,
		WithLogger(logger.Discard()),
		WithClock(clock.Now),
		WithTokenIDs(func() string {
			seq++
			return fmt.Sprintf("tok-%d", seq)
		}),
	)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return &testEnv{m: m, mr: mr, fault: fault, clock: clock, cfg: cfg}
}

func (e *testEnv) indexMembers(t *testing.T, userID string) []string {
	t.Helper()
	if !e.mr.Exists(session.UserTokensKey(userID)) {
		return nil
	}
	members, err := e.mr.ZMembers(session.UserTokensKey(userID))
	if err != nil {
		t.Fatalf("zmembers: %v", err)
	}
	return members
}

func (e *testEnv) issueRefresh(t *testing.T, userID string) (string, Claims) {
	t.Helper()
	tok, err := e.m.IssueRefreshToken(context.Background(), userID)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	claims, err := e.m.Codec().Decode(tok)
	if err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	return tok, claims
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected %s, got %s (%v)", want, got, err)
	}
}
