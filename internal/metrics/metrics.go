// Package metrics exposes Prometheus metrics for interactions and external calls.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vokinneberg/invoice-assistant/internal/invoice"
)

const namespace = "invoice_assistant"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	InteractionsTotal    *prometheus.CounterVec
	ExternalCallsTotal   *prometheus.CounterVec
	ExternalCallDuration *prometheus.HistogramVec
	HTTPRequestsTotal    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		InteractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "interaction",
				Name:      "total",
				Help:      "Total number of interactions by outcome",
			},
			[]string{"outcome"},
		),
		ExternalCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "external",
				Name:      "calls_total",
				Help:      "Total number of calls to external services",
			},
			[]string{"operation", "backend", "status"},
		),
		ExternalCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "external",
				Name:      "call_duration_seconds",
				Help:      "External call duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation", "backend"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CountRequest counts one served HTTP request.
func (m *Metrics) CountRequest(method, route string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveOutcome counts one finished interaction.
func (m *Metrics) ObserveOutcome(out *invoice.Outcome) {
	m.InteractionsTotal.WithLabelValues(OutcomeLabel(out)).Inc()
}

// OutcomeLabel names how an interaction ended.
func OutcomeLabel(out *invoice.Outcome) string {
	switch {
	case out == nil:
		return "unknown"
	case out.Err != nil:
		return string(invoice.KindOf(out.Err))
	case out.Answer.Failed():
		return string(invoice.KindModelCallFailed)
	case out.SpeechErr != nil:
		return "answered_without_speech"
	default:
		return "answered"
	}
}

func (m *Metrics) observeCall(operation, backend string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ExternalCallsTotal.WithLabelValues(operation, backend, status).Inc()
	m.ExternalCallDuration.WithLabelValues(operation, backend).Observe(time.Since(start).Seconds())
}

type instrumentedModel struct {
	next    invoice.AnswerModel
	backend string
	m       *Metrics
}

// InstrumentModel records calls made through next.
func (m *Metrics) InstrumentModel(next invoice.AnswerModel, backend string) invoice.AnswerModel {
	return &instrumentedModel{next: next, backend: backend, m: m}
}

func (i *instrumentedModel) GenerateAnswer(ctx context.Context, prompt string, image *invoice.ImagePayload, question string) (string, error) {
	start := time.Now()
	answer, err := i.next.GenerateAnswer(ctx, prompt, image, question)
	i.m.observeCall("generate_answer", i.backend, start, err)
	return answer, err
}

type instrumentedRecognizer struct {
	next    invoice.SpeechRecognizer
	backend string
	m       *Metrics
}

// InstrumentRecognizer records calls made through next.
func (m *Metrics) InstrumentRecognizer(next invoice.SpeechRecognizer, backend string) invoice.SpeechRecognizer {
	return &instrumentedRecognizer{next: next, backend: backend, m: m}
}

func (i *instrumentedRecognizer) Transcribe(ctx context.Context, clip invoice.AudioClip) (string, error) {
	start := time.Now()
	text, err := i.next.Transcribe(ctx, clip)
	i.m.observeCall("transcribe", i.backend, start, err)
	return text, err
}

type instrumentedSynthesizer struct {
	next    invoice.SpeechSynthesizer
	backend string
	m       *Metrics
}

// InstrumentSynthesizer records calls made through next.
func (m *Metrics) InstrumentSynthesizer(next invoice.SpeechSynthesizer, backend string) invoice.SpeechSynthesizer {
	return &instrumentedSynthesizer{next: next, backend: backend, m: m}
}

func (i *instrumentedSynthesizer) Synthesize(ctx context.Context, text string) (*invoice.AudioClip, error) {
	start := time.Now()
	clip, err := i.next.Synthesize(ctx, text)
	i.m.observeCall("synthesize", i.backend, start, err)
	return clip, err
}
