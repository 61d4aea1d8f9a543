// Package event は注文イベントの送信先。
package event

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"foodcourt/internal/domain/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Kafkaへ同期で書き込む。キーは注文IDなので同じ注文のイベントは同じパーティションに入る
type KafkaPublisher struct {
	writer *kafka.Writer
	closed atomic.Bool
}

func NewKafkaPublisher(cfg KafkaConfig, log zerolog.Logger) *KafkaPublisher {
	l := log.With().Str("component", "kafka_publisher").Logger()

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   5 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			l.Error().Msgf(msg, args...)
		}),
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderEvents(ctx context.Context, events []model.OrderEvent) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	if len(events) == 0 {
		return nil
	}

	msgs, err := ToMessages(events)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *KafkaPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

// イベントをKafkaメッセージに変換（値はJSON）
func ToMessages(events []model.OrderEvent) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(e.OrderID, 10)),
			Value: b,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
			},
			Time: e.OccurredAt,
		})
	}
	return msgs, nil
}
