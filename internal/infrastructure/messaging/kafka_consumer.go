package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	ingestUsecase "github.com/johnquangdev/caption-relay/internal/usecase/ingest"
	"github.com/johnquangdev/caption-relay/pkg/config"
	"github.com/johnquangdev/caption-relay/pkg/jobcontext"
	"github.com/johnquangdev/caption-relay/pkg/metrics"
)

// Consume results recorded per message
const (
	resultOK      = "ok"
	resultInvalid = "invalid"
	resultFailed  = "failed"
)

// MessageReader is the part of *kafka.Reader the consumer uses
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventResolver maps an interaction id to a caption event
type EventResolver interface {
	ResolveEvent(ctx context.Context, ref string) (*entities.Event, error)
}

// TranscriptConsumer feeds the transcriber's Kafka topics into the ingest
// service. Each topic has its own reader and goroutine, so partials never
// wait behind finals.
type TranscriptConsumer struct {
	readers    []MessageReader
	finalTopic string
	events     EventResolver
	ingest     ingestUsecase.Service
	metrics    *metrics.Metrics
	logger     *zap.Logger

	jobTimeout time.Duration
	maxRetries int
	baseDelay  time.Duration
}

// NewTranscriptConsumer creates group readers for the partial and final topics
func NewTranscriptConsumer(cfg config.KafkaConfig, events EventResolver, ingest ingestUsecase.Service, m *metrics.Metrics, logger *zap.Logger) *TranscriptConsumer {
	readers := make([]MessageReader, 0, 2)
	for _, topic := range []string{cfg.TopicPartial, cfg.TopicFinal} {
		readers = append(readers, kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		}))
	}
	return NewTranscriptConsumerWithReaders(readers, cfg.TopicFinal, events, ingest, m, logger)
}

// NewTranscriptConsumerWithReaders creates a consumer over existing readers
func NewTranscriptConsumerWithReaders(readers []MessageReader, finalTopic string, events EventResolver, ingest ingestUsecase.Service, m *metrics.Metrics, logger *zap.Logger) *TranscriptConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptConsumer{
		readers:    readers,
		finalTopic: finalTopic,
		events:     events,
		ingest:     ingest,
		metrics:    m,
		logger:     logger,
		jobTimeout: 30 * time.Second,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
}

// Run consumes until ctx is done, then closes the readers
func (c *TranscriptConsumer) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, r := range c.readers {
		wg.Add(1)
		go func(r MessageReader) {
			defer wg.Done()
			c.consume(ctx, r)
		}(r)
	}
	wg.Wait()

	var errs []error
	for _, r := range c.readers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *TranscriptConsumer) consume(ctx context.Context, r MessageReader) {
	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("⚠️ Kafka fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		result := c.Handle(ctx, msg)
		c.metrics.RecordKafkaMessage(msg.Topic, result)

		if err := r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Warn("⚠️ Kafka commit failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// Handle processes one message and returns its result label. Failed and
// invalid messages are logged and skipped; the transcript keeps flowing.
func (c *TranscriptConsumer) Handle(ctx context.Context, msg kafka.Message) string {
	transcript, err := DecodeTranscript(msg.Value)
	if err != nil {
		c.logger.Warn("⚠️ Skipping malformed transcript message",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return resultInvalid
	}

	jobID := fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
	jobCtx, cancel := jobcontext.JobBegin(ctx, jobID, msg.Topic, c.jobTimeout)
	defer cancel()
	jobCtx = jobcontext.SetMaxRetries(jobCtx, c.maxRetries)
	jobCtx = jobcontext.SetBaseDelay(jobCtx, c.baseDelay)

	err = jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return c.apply(ctx, msg.Topic, transcript)
	})
	if err == nil {
		return resultOK
	}

	var permanent *jobcontext.PermanentError
	if errors.As(err, &permanent) {
		c.logger.Warn("⚠️ Rejected transcript message",
			zap.String("job_id", jobID),
			zap.String("interaction_id", transcript.InteractionID),
			zap.Error(err),
		)
		return resultInvalid
	}
	c.logger.Error("❌ Failed to ingest transcript message",
		zap.String("job_id", jobID),
		zap.String("interaction_id", transcript.InteractionID),
		zap.Error(err),
	)
	return resultFailed
}

func (c *TranscriptConsumer) apply(ctx context.Context, topic string, msg *TranscriptMessage) error {
	event, err := c.events.ResolveEvent(ctx, msg.InteractionID)
	if err != nil {
		return classify(err)
	}

	var lang *string
	if code := strings.TrimSpace(msg.LanguageCode); code != "" {
		lang = &code
	}

	if msg.IsFinal(topic, c.finalTopic) {
		segment, created, err := c.ingest.AppendSegment(ctx, ingestUsecase.AppendSegmentInput{
			EventID:        event.ID,
			Text:           msg.Text,
			LanguageCode:   lang,
			SequenceNumber: SegmentSequence(msg.SegmentID),
		})
		if err != nil {
			return classify(err)
		}
		c.logger.Debug("segment ingested from kafka",
			zap.String("event_id", event.ID.String()),
			zap.Int64("sequence_number", segment.SequenceNumber),
			zap.Bool("created", created),
		)
		return nil
	}

	_, err = c.ingest.UpdatePartial(ctx, ingestUsecase.UpdatePartialInput{
		EventID:      event.ID,
		Text:         msg.Text,
		LanguageCode: lang,
	})
	return classify(err)
}

// classify marks caller errors permanent; everything else is retried
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, usecaseErrors.ErrInvalidInput) || errors.Is(err, usecaseErrors.ErrNotFound) {
		return jobcontext.Permanent(err)
	}
	return err
}
