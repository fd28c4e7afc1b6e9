package options

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/pflag"
)

// HTTPOptions contains configuration items related to HTTP server startup.
type HTTPOptions struct {
	// Addr is the bind address and port of the REST API.
	Addr string `json:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewHTTPOptions creates a HTTPOptions object with default parameters.
func NewHTTPOptions() *HTTPOptions {
	return &HTTPOptions{
		Addr:            "0.0.0.0:8000",
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *HTTPOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, fmt.Errorf("--http.addr: %w", err))
	}
	if o.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Errorf("--http.shutdown-timeout must be positive"))
	}

	return errors
}

// AddFlags adds flags related to the HTTP server to the specified FlagSet.
func (o *HTTPOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "http.addr", o.Addr, "Specify the HTTP server bind address and port.")
	fs.DurationVar(&o.ShutdownTimeout, "http.shutdown-timeout", o.ShutdownTimeout, "Time allowed for in-flight requests on shutdown.")
}

// GRPCOptions are for the plaintext gRPC port.
type GRPCOptions struct {
	// Addr is the gRPC bind address. Empty disables the gRPC server.
	Addr string `json:"addr" mapstructure:"addr"`
}

func NewGRPCOptions() *GRPCOptions {
	return &GRPCOptions{
		Addr: ":50051",
	}
}

func (o *GRPCOptions) Validate() []error {
	if o == nil || o.Addr == "" {
		return nil
	}

	var errors []error

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, fmt.Errorf("--grpc.addr: %w", err))
	}

	return errors
}

func (o *GRPCOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "grpc.addr", o.Addr, "Specify the gRPC server bind address and port. Empty disables gRPC.")
}

// ValidateAddress checks that addr is a host:port pair with a numeric port.
func ValidateAddress(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return nil
}
