//go:build integration

package relay_test

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// produceRaw writes arbitrary bytes to a topic, bypassing the envelope
// encoder. Used to plant malformed records.
func produceRaw(ctx context.Context, broker, topic string, value []byte) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(broker))
	if err != nil {
		return err
	}
	defer client.Close()

	record := &kgo.Record{Topic: topic, Value: value}
	return client.ProduceSync(ctx, record).FirstErr()
}
