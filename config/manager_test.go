package config

import (
	"os"
	"testing"
	"time"
)

func TestManagerSetGet(t *testing.T) {
	m := NewManager()
	m.Set("rate.limit", 5)
	v, ok := m.Get("rate.limit")
	if !ok || v != 5 {
		t.Errorf("Get = %v, %v, want 5, true", v, ok)
	}
}

func TestManagerGetIntCoercesString(t *testing.T) {
	m := NewManager()
	m.Set("workers", "12")
	if got := m.GetInt("workers"); got != 12 {
		t.Errorf("GetInt = %d, want 12", got)
	}
}

func TestManagerGetIntDefault(t *testing.T) {
	m := NewManager()
	if got := m.GetInt("missing", 7); got != 7 {
		t.Errorf("GetInt default = %d, want 7", got)
	}
}

func TestManagerGetBoolVariants(t *testing.T) {
	m := NewManager()
	m.Set("a", "yes")
	m.Set("b", "0")
	if !m.GetBool("a") {
		t.Error(`GetBool("a") should be true for "yes"`)
	}
	if m.GetBool("b") {
		t.Error(`GetBool("b") should be false for "0"`)
	}
}

func TestManagerGetDuration(t *testing.T) {
	m := NewManager()
	m.Set("timeout", "250ms")
	if got := m.GetDuration("timeout"); got != 250*time.Millisecond {
		t.Errorf("GetDuration = %v, want 250ms", got)
	}
}

func TestManagerGetStringSliceFromCSV(t *testing.T) {
	m := NewManager()
	m.Set("hosts", "a,b,c")
	got := m.GetStringSlice("hosts")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("GetStringSlice = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GetStringSlice[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestManagerWatchFiresOnSet(t *testing.T) {
	m := NewManager()
	fired := make(chan any, 1)
	m.Watch("key", func(k string, v any) { fired <- v })

	m.Set("key", "value")

	select {
	case v := <-fired:
		if v != "value" {
			t.Errorf("watcher got %v, want value", v)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher never fired")
	}
}

func TestManagerLoadFromEnvStripsPrefixAndLowercases(t *testing.T) {
	os.Setenv("ZZZ_RATE_LIMIT_PER_SECOND", "42")
	defer os.Unsetenv("ZZZ_RATE_LIMIT_PER_SECOND")

	m := NewManager()
	m.LoadFromEnv("ZZZ_")

	if got := m.GetInt("rate.limit.per.second"); got != 42 {
		t.Errorf("GetInt(rate.limit.per.second) = %d, want 42", got)
	}
}

func TestManagerUnmarshalIntoStruct(t *testing.T) {
	type target struct {
		Name    string `config:"name"`
		Workers int    `config:"workers"`
		Enabled bool   `config:"enabled"`
	}

	m := NewManager()
	m.Set("svc.name", "zzz")
	m.Set("svc.workers", 8)
	m.Set("svc.enabled", true)

	var tgt target
	if err := m.Unmarshal("svc", &tgt); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if tgt.Name != "zzz" || tgt.Workers != 8 || !tgt.Enabled {
		t.Errorf("Unmarshal result = %+v", tgt)
	}
}

func TestManagerDeleteAndClear(t *testing.T) {
	m := NewManager()
	m.Set("a", 1)
	m.Set("b", 2)

	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Error("Get(a) should miss after Delete")
	}

	m.Clear()
	if len(m.GetAll()) != 0 {
		t.Error("GetAll should be empty after Clear")
	}
}
