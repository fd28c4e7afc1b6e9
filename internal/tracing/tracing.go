package tracing

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Options controls span export.
type Options struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"service-name" mapstructure:"service-name"`
	Pretty      bool   `json:"pretty" mapstructure:"pretty"`
}

func NewOptions() *Options {
	return &Options{ServiceName: "robotd"}
}

func (o *Options) Validate() []error {
	if o.Enabled && o.ServiceName == "" {
		return []error{fmt.Errorf("--trace.service-name must be set when tracing is enabled")}
	}
	return nil
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "trace.enabled", o.Enabled, "Export request spans to stdout.")
	fs.StringVar(&o.ServiceName, "trace.service-name", o.ServiceName, "service.name resource attribute on exported spans.")
	fs.BoolVar(&o.Pretty, "trace.pretty", o.Pretty, "Pretty-print exported spans.")
}

// NewProvider builds a tracer provider. Spans are recorded either way; they
// are only exported when tracing is enabled.
func NewProvider(opts *Options, w io.Writer) (*sdktrace.TracerProvider, error) {
	if w == nil {
		w = os.Stdout
	}
	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))),
	}
	if opts.Enabled {
		exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
		if opts.Pretty {
			exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
		}
		exp, err := stdouttrace.New(exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(providerOpts...), nil
}
