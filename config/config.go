// Package config holds the size limits, timeouts and default headers the
// flow core and its transports are tuned with. It covers exactly what a
// connection-flow core consults — line/header/body size caps, read
// timeouts and buffering — not a full server's routing or virtual-host
// configuration.
package config

import (
	"os"
	"time"

	json "github.com/json-iterator/go"
)

// URI bounds the size of a request/status line.
type URI struct {
	// LineSize is the maximum number of bytes ReadLine will accumulate
	// for a request or status line before giving up. A server answers an
	// over-long request line with a 400; a client just recycles.
	LineSize int
}

// Headers bounds the header block.
type Headers struct {
	// LineSize is the maximum number of bytes a single header line may
	// occupy.
	LineSize int
	// MaxCount is the maximum number of header lines accepted before the
	// blank line.
	MaxCount int
	// Default are headers merged into session.Data.outbound at
	// Processor.Start, e.g. a Server: header.
	Default map[string]string
}

// Body bounds the request/response content.
type Body struct {
	// MaxLength is the maximum Content-Length this flow core will accept.
	// Exceeding it rejects the request with 413 instead of reading it.
	MaxLength uint64
}

// NET configures the transport layer's timeouts and buffering.
type NET struct {
	// ReadTimeout is applied as a deadline on every ReadLine/ReadFull
	// issued against a transport.tcp.Transport.
	ReadTimeout time.Duration
	// ReadBufferSize sizes the buffer a transport.tcp.Transport reads
	// into at once.
	ReadBufferSize int
}

// Config is the root configuration object. Always obtain one via Default
// and mutate the copy; never build a zero Config by hand, since several
// fields (e.g. Body.MaxLength == 0) have a very different meaning at zero
// than at their intended default.
type Config struct {
	URI     URI
	Headers Headers
	Body    Body
	NET     NET
}

// Default returns a well-balanced configuration suitable for production
// use without further tuning.
func Default() *Config {
	return &Config{
		URI: URI{
			LineSize: 16 * 1024,
		},
		Headers: Headers{
			LineSize: 8 * 1024,
			MaxCount: 64,
			Default:  map[string]string{},
		},
		Body: Body{
			MaxLength: 512 * 1024 * 1024,
		},
		NET: NET{
			ReadTimeout:    90 * time.Second,
			ReadBufferSize: 4 * 1024,
		},
	}
}

// FromJSON reads a Config from path, overlaying it onto Default() so that
// a partial JSON document only overrides the fields it mentions.
func FromJSON(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
