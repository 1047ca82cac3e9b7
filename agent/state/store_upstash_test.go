package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestUpstashStore(t *testing.T, handler http.HandlerFunc, opts ...StoreOption) *UpstashRedisStore {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]StoreOption{WithHTTPClient(server.Client())}, opts...)
	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{
			URL:   server.URL,
			Token: "token",
		},
		opts...,
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	return store
}

func TestKVOptionsKey(t *testing.T) {
	t.Parallel()

	o, err := buildKVOptions(nil)
	if err != nil {
		t.Fatalf("buildKVOptions() error = %v", err)
	}
	got, err := o.key("abc")
	if err != nil {
		t.Fatalf("key() error = %v", err)
	}
	if got != "wanda:call:abc" {
		t.Fatalf("key() = %q, want %q", got, "wanda:call:abc")
	}
}

func TestKVOptionsKeyEmptyCallID(t *testing.T) {
	t.Parallel()

	o, _ := buildKVOptions([]StoreOption{WithKeyPrefix("x:")})
	_, err := o.key("   ")
	if !errors.Is(err, ErrInvalidCallID) {
		t.Fatalf("key() error = %v, want ErrInvalidCallID", err)
	}
}

func TestBuildKVOptionsRejectsNegativeTTL(t *testing.T) {
	t.Parallel()

	if _, err := buildKVOptions([]StoreOption{WithTTL(-time.Second)}); err == nil {
		t.Fatal("buildKVOptions() error = nil, want ttl error")
	}
}

func TestUpstashRedisStoreSave(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	store := newTestUpstashStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":"OK"}`)
	}, WithTTL(90*time.Minute))

	sess := NewCallSession("call-1", time.Now().UTC())
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(gotCommand) != 5 {
		t.Fatalf("unexpected command: %#v", gotCommand)
	}
	if gotCommand[0] != "SET" || gotCommand[1] != "wanda:call:call-1" {
		t.Fatalf("command = %v", gotCommand[:2])
	}
	if gotCommand[3] != "EX" || gotCommand[4] != float64(5400) {
		t.Fatalf("expiry = %v %v, want EX 5400", gotCommand[3], gotCommand[4])
	}
}

func TestUpstashRedisStoreLoad(t *testing.T) {
	t.Parallel()

	seed := NewCallSession("call-2", time.Now().UTC())
	seed.CallerPhoneNumber = "+15551234567"
	payload, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	encoded, err := json.Marshal(string(payload))
	if err != nil {
		t.Fatalf("marshal encoded seed: %v", err)
	}

	var gotCommand []any
	store := newTestUpstashStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprintf(w, `{"result":%s}`, encoded)
	})

	sess, err := store.Load(context.Background(), "call-2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sess.CallID != "call-2" || sess.CallerPhoneNumber != "+15551234567" {
		t.Fatalf("Load() = %+v", sess)
	}
	if gotCommand[0] != "GET" || gotCommand[1] != "wanda:call:call-2" {
		t.Fatalf("command = %v", gotCommand)
	}
}

func TestUpstashRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := newTestUpstashStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	})

	_, err := store.Load(context.Background(), "call-3")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Load() error = %v, want ErrSessionNotFound", err)
	}
}

func TestUpstashRedisStoreErrorPayload(t *testing.T) {
	t.Parallel()

	store := newTestUpstashStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGPASS invalid token"}`)
	})

	if _, err := store.Load(context.Background(), "call-4"); err == nil {
		t.Fatal("Load() error = nil, want redis error")
	}
}
