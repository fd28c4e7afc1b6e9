// Package options holds the command-line and environment configuration of
// robotd.
package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/devghori1264/aerophoenix/robot-service/internal/log"
	"github.com/devghori1264/aerophoenix/robot-service/internal/tracing"
)

// EnvPrefix prefixes every environment variable, e.g. ROBOTD_HTTP_ADDR.
const EnvPrefix = "ROBOTD"

// ServerOptions aggregates the options of every robotd component.
type ServerOptions struct {
	HTTP   *HTTPOptions     `json:"http" mapstructure:"http"`
	GRPC   *GRPCOptions     `json:"grpc" mapstructure:"grpc"`
	Store  *StoreOptions    `json:"store" mapstructure:"store"`
	Events *EventsOptions   `json:"events" mapstructure:"events"`
	Trace  *tracing.Options `json:"trace" mapstructure:"trace"`
	Log    *log.Options     `json:"log" mapstructure:"log"`
}

func NewServerOptions() *ServerOptions {
	o := &ServerOptions{
		HTTP:   NewHTTPOptions(),
		GRPC:   NewGRPCOptions(),
		Store:  NewStoreOptions(),
		Events: NewEventsOptions(),
		Trace:  tracing.NewOptions(),
		Log:    log.NewOptions(),
	}
	o.Log.Name = "robotd"

	return o
}

// AddFlags registers every component's flags on fs.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.GRPC.AddFlags(fs)
	o.Store.AddFlags(fs)
	o.Events.AddFlags(fs)
	o.Trace.AddFlags(fs)
	o.Log.AddFlags(fs)
}

// Load fills the options from fs and the environment. Flags set on the
// command line win over environment variables, which win over defaults.
func (o *ServerOptions) Load(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if err := v.Unmarshal(o); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}

// Validate checks every component and reports all problems at once.
func (o *ServerOptions) Validate() error {
	var errs []error

	errs = append(errs, o.HTTP.Validate()...)
	errs = append(errs, o.GRPC.Validate()...)
	errs = append(errs, o.Store.Validate()...)
	errs = append(errs, o.Events.Validate()...)
	errs = append(errs, o.Trace.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	return multierr.Combine(errs...)
}
