package config

import "testing"

func TestDefaultProducesPositiveBounds(t *testing.T) {
	cfg := Default()
	if cfg.RecvBytesRetain <= 0 || cfg.RecvBytesMax < cfg.RecvBytesRetain {
		t.Errorf("recv buffer bounds inconsistent: retain=%d max=%d", cfg.RecvBytesRetain, cfg.RecvBytesMax)
	}
	if cfg.HeaderCountMax <= 0 {
		t.Error("HeaderCountMax should be positive")
	}
	if cfg.Addr == "" {
		t.Error("Addr should have a default listen address")
	}
}
