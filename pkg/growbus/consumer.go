package growbus

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one message delivered on a subscribed topic.
type Handler func(topic string, message mqtt.Message) error

// IConsumer is the subscription contract services depend on, so tests can
// inject a fake that feeds messages directly.
type IConsumer interface {
	Consume(ctx context.Context)
	SetHandler(h Handler)
}

// Consumer subscribes to a set of topic filters on a shared MQTT client and
// dispatches every delivery to a single handler.
type Consumer struct {
	client  mqtt.Client
	topics  []string
	handler Handler
}

func NewConsumer(client mqtt.Client, topics []string, h Handler) *Consumer {
	return &Consumer{client: client, topics: topics, handler: h}
}

func (c *Consumer) SetHandler(h Handler) {
	c.handler = h
}

// qosFor picks the delivery guarantee per topic. The three dashboard event
// classes ride QoS1 (at-least-once); anything else stays at QoS0.
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "grow/insight/created") ||
		strings.HasPrefix(t, "grow/risk/updated") ||
		strings.HasPrefix(t, "grow/growth/stage") {
		return 1
	}
	return 0
}

// Consume subscribes to every configured topic and blocks until ctx is
// cancelled, then unsubscribes.
func (c *Consumer) Consume(ctx context.Context) {
	for _, topic := range c.topics {
		topic := topic
		token := c.client.Subscribe(topic, qosFor(topic), func(_ mqtt.Client, msg mqtt.Message) {
			if c.handler == nil {
				log.Printf("growbus: no handler set for topic %s", topic)
				return
			}
			if err := c.handler(topic, msg); err != nil {
				log.Printf("growbus: handler error on %s: %v", topic, err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			log.Printf("growbus: subscribe %s failed: %v", topic, token.Error())
		} else {
			log.Printf("growbus: subscribed to %s", topic)
		}
	}

	<-ctx.Done()

	for _, topic := range c.topics {
		c.client.Unsubscribe(topic)
	}
}
