package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
)

const (
	defaultServiceName  = "sentinelnet"
	instrumentationName = "github.com/Sanjaykumaar123/sentinelnet"
	exportTimeout       = 10 * time.Second
)

// Provider 는 OpenTelemetry TracerProvider 수명을 관리한다.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
}

// NewProvider 는 OTLP/gRPC 로 span 을 내보내는 TracerProvider 를 글로벌로 설정한다.
// 비활성 설정이면 no-op Provider 를 반환한다.
func NewProvider(ctx context.Context, cfg config.TelemetryConfig) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(cfg)),
		sdktrace.WithSampler(sdktrace.ParentBased(rootSampler(cfg.SampleRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tracerProvider: tp}, nil
}

func newExporter(ctx context.Context, cfg config.TelemetryConfig) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithTimeout(exportTimeout),
	}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	return exporter, nil
}

// newResource 는 resource.Default 와 합치지 않는다. schema URL 이 달라 Merge 가 실패할 수 있다.
func newResource(cfg config.TelemetryConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName(cfg)),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	)
}

// ServiceName 은 설정된 서비스 이름, 없으면 기본값을 반환한다.
func ServiceName(cfg config.TelemetryConfig) string {
	if cfg.ServiceName == "" {
		return defaultServiceName
	}
	return cfg.ServiceName
}

// rootSampler 는 부모 span 이 없을 때 쓰는 샘플러다.
func rootSampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Tracer 는 글로벌 provider 의 tracer 를 반환한다. 비활성이면 no-op 이다.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Shutdown 은 남은 span 을 flush 하고 provider 를 닫는다.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tracerProvider == nil {
		return nil
	}
	return p.tracerProvider.Shutdown(ctx)
}

// IsEnabled 는 span 을 내보내는 중인지 반환한다.
func (p *Provider) IsEnabled() bool {
	return p != nil && p.tracerProvider != nil
}
