package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds every tunable named by the connection engine, provision
// pool and request parser. Field names mirror the knobs the core actually
// reads; there's no generic "server" bucket because every number here
// bounds something specific (a buffer, a count, a retained size).
type Config struct {
	Addr string

	// BacklogCount is the listen() backlog passed to the kernel.
	BacklogCount int

	// Workers is the worker pool size; 0 resolves to runtime.NumCPU().
	Workers int

	// ConnectionCountMax bounds concurrently outstanding provisions; 0
	// means unbounded. The provision pool parks Borrow callers rather
	// than refusing when this is reached.
	ConnectionCountMax int

	// ConnectionArenaBytesRetain is the scratch arena size kept between
	// requests on a kept-alive connection.
	ConnectionArenaBytesRetain int

	// RecvBytesRetain is the recv buffer size a provision is shrunk back
	// to on release, once it's grown past it serving a large request.
	RecvBytesRetain int

	// RecvBytesMax bounds how far the recv buffer may grow while still
	// waiting for a complete header block or body.
	RecvBytesMax int

	// SocketBufferBytes sizes the per-syscall read buffer used to drain
	// a readable socket.
	SocketBufferBytes int

	HeaderCountMax  int
	CaptureCountMax int
	QueryCountMax   int

	RequestBytesMax    int
	RequestURIBytesMax int

	// TLSEnabled, TLSCertFile and TLSKeyFile are parsed from flags, but
	// nothing in the engine reads them: Engine.Run always listens through
	// the plaintext transport. The core never implements TLS handshake
	// mechanics itself — see transport.Transport.
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
}

// Default returns conservative, production-sane defaults: small buffers
// that grow on demand, one worker per CPU, and unbounded connections.
func Default() Config {
	return Config{
		Addr:                       ":8080",
		BacklogCount:               512,
		Workers:                    0,
		ConnectionCountMax:         0,
		ConnectionArenaBytesRetain: 4096,
		RecvBytesRetain:            4096,
		RecvBytesMax:               1 << 20,
		SocketBufferBytes:          8192,
		HeaderCountMax:             32,
		CaptureCountMax:            8,
		QueryCountMax:              8,
		RequestBytesMax:            2 << 20,
		RequestURIBytesMax:         2048,
	}
}

// FromFlags parses Config from command-line flags layered over Default(),
// then applies a handful of environment variable overrides.
func FromFlags() *Config {
	cfg := Default()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.IntVar(&cfg.BacklogCount, "backlog", cfg.BacklogCount, "listen backlog")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker pool size (0 = NumCPU)")
	flag.IntVar(&cfg.ConnectionCountMax, "max-connections", cfg.ConnectionCountMax, "max concurrent connections (0 = unbounded)")
	flag.IntVar(&cfg.HeaderCountMax, "max-headers", cfg.HeaderCountMax, "max headers per request")
	flag.IntVar(&cfg.RequestBytesMax, "max-request-bytes", cfg.RequestBytesMax, "max total request size")
	flag.IntVar(&cfg.RequestURIBytesMax, "max-uri-bytes", cfg.RequestURIBytesMax, "max request URI length")
	flag.BoolVar(&cfg.TLSEnabled, "tls", cfg.TLSEnabled, "TLS flag (not read by the engine, which serves plaintext)")
	flag.StringVar(&cfg.TLSCertFile, "tls-cert", cfg.TLSCertFile, "TLS certificate file")
	flag.StringVar(&cfg.TLSKeyFile, "tls-key", cfg.TLSKeyFile, "TLS key file")

	flag.Parse()

	if v := os.Getenv("ZZZ_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ZZZ_MAX_CONNECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ConnectionCountMax = n
		}
	}

	return &cfg
}
