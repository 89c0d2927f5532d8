package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	refreshJob       *RefreshJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	RefreshJob       *RefreshJob
	Logger           zerolog.Logger
}

// RefreshMessage represents a baseline refresh job message.
type RefreshMessage struct {
	JobType string `json:"job_type"`

	// UserID restricts the refresh to a single user. Empty means all users.
	UserID string `json:"user_id,omitempty"`

	// Metrics restricts the refresh to the given metric keys.
	Metrics []string `json:"metrics,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		refreshJob:       cfg.RefreshJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var refreshMsg RefreshMessage
	if err := json.Unmarshal(msg.Data, &refreshMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch refreshMsg.JobType {
	case "baseline_refresh":
		err = h.handleBaselineRefresh(ctx, refreshMsg)
	case "user_refresh":
		err = h.handleUserRefresh(ctx, refreshMsg)
	default:
		logger.Warn().Str("job_type", refreshMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", refreshMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleBaselineRefresh(ctx context.Context, msg RefreshMessage) error {
	h.logger.Info().Msg("starting baseline refresh")

	result := h.refreshJob.Run(ctx)

	h.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("total_tasks", result.TotalTasks).
		Msg("baseline refresh completed")

	// Consider it successful if more than half succeeded.
	if result.Failed > result.Successful {
		return fmt.Errorf("too many refresh failures: %d/%d", result.Failed, result.TotalTasks)
	}

	return nil
}

// handleUserRefresh recomputes baselines for one user, typically triggered
// after a burst of new samples.
func (h *PubSubHandler) handleUserRefresh(ctx context.Context, msg RefreshMessage) error {
	if msg.UserID == "" {
		return fmt.Errorf("user_refresh requires user_id")
	}

	metrics := msg.Metrics
	if len(metrics) == 0 {
		metrics = h.refreshJob.config.Metrics
	}

	h.logger.Info().
		Str("user_id", msg.UserID).
		Int("metrics", len(metrics)).
		Msg("starting single-user refresh")

	var failed int
	for _, metric := range metrics {
		result := h.refreshJob.refreshOne(ctx, refreshTask{userID: msg.UserID, metric: metric})
		if result.err != nil {
			h.logger.Warn().
				Err(result.err).
				Str("metric", metric).
				Msg("metric refresh failed")
			failed++
		}
	}

	if failed == len(metrics) {
		return fmt.Errorf("all %d metric refreshes failed for user", failed)
	}
	return nil
}
