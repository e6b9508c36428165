package database

import (
	"fmt"
	"time"

	errprocess "messaging_service/pkg/err"
	"messaging_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewKafkaWriterWithRetry 嘗試連線 broker 並確認 topic 存在後建立 Kafka Writer
func NewKafkaWriterWithRetry(k KafkaConnection) (*kafka.Writer, error) {
	if len(k.Brokers) == 0 {
		return nil, errprocess.Set("kafka: no brokers configured")
	}

	var err error
	for attempt := 1; attempt <= max(k.RetryCount, 1); attempt++ {
		err = checkTopic(k.Brokers[0], k.Topic)
		if err == nil {
			logger.Log.Info("kafka writer ready", zap.String("topic", k.Topic), zap.Int("attempt", attempt))
			return &kafka.Writer{
				Addr:         kafka.TCP(k.Brokers...),
				Topic:        k.Topic,
				Balancer:     &kafka.Hash{},
				RequiredAcks: kafka.RequireOne,
				BatchTimeout: 10 * time.Millisecond,
				Async:        true,
				Completion:   logKafkaCompletion,
			}, nil
		}

		logger.Log.Warn("kafka broker not reachable, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max", k.RetryCount),
			zap.Error(err),
		)
		time.Sleep(k.RetryInterval * time.Second)
	}

	return nil, errprocess.Wrap(fmt.Sprintf("kafka writer not ready after %d attempts", k.RetryCount), err)
}

func checkTopic(broker, topic string) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ReadPartitions(topic)
	return err
}

// logKafkaCompletion async writes report delivery here instead of WriteMessages
func logKafkaCompletion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	logger.Log.Error("kafka async write failed", zap.Int("messages", len(messages)), zap.Error(err))
}
