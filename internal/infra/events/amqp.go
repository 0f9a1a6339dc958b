package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var errPublisherClosed = errors.New("event publisher is closed")

// Publisher は注文イベントをtopic exchangeに送る。
// ブローカー側でチャネルや接続が閉じられたら次のPublishで開き直す。
type Publisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closes  chan *amqp.Error
	shut    bool
}

// 送信するメッセージの形
type Message struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	p := &Publisher{url: amqpURL, exchange: exchange}
	if err := p.open(); err != nil {
		return nil, err
	}
	return p, nil
}

// 接続（切れていれば）とチャネルを開いてexchangeを宣言する。muを持って呼ぶ
func (p *Publisher) open() error {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		p.conn = conn
	}

	channel, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		_ = channel.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.channel = channel
	p.closes = channel.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

// チャネルが閉じられていればtrue。理由があれば返す
func channelClosed(closes <-chan *amqp.Error) (bool, *amqp.Error) {
	if closes == nil {
		return true, nil
	}
	select {
	case reason, ok := <-closes:
		if !ok {
			return true, nil
		}
		return true, reason
	default:
		return false, nil
	}
}

// 使えるチャネルを返す。muを持って呼ぶ
func (p *Publisher) ensureChannel(ctx context.Context) (*amqp.Channel, error) {
	if p.shut {
		return nil, errPublisherClosed
	}

	closed, reason := channelClosed(p.closes)
	if !closed {
		return p.channel, nil
	}

	//閉じられたのを見たときに1回だけ出す
	if p.channel != nil {
		entry := logrus.WithContext(ctx).WithField("exchange", p.exchange)
		if reason != nil {
			entry = entry.WithField("reason", reason.Error())
		}
		entry.Error("amqp channel closed, reopening")
		p.channel = nil
		p.closes = nil
	}

	if err := p.open(); err != nil {
		return nil, err
	}
	return p.channel, nil
}

func newMessage(routingKey string, data any, now time.Time) Message {
	return Message{
		ID:         uuid.NewString(),
		Event:      routingKey,
		OccurredAt: now.UTC(),
		Data:       data,
	}
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := newMessage(routingKey, data, time.Now())
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	channel, err := p.ensureChannel(ctx)
	if err != nil {
		return err
	}

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"event":    routingKey,
		"exchange": p.exchange,
		"message":  msg.ID,
	}).Debug("publishing event")

	err = channel.Publish(
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.OccurredAt,
			Type:         routingKey,
			Body:         body,
		},
	)
	if errors.Is(err, amqp.ErrClosed) {
		//通知より先に気づいたとき。次回開き直す
		p.channel = nil
		p.closes = nil
	}
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.shut = true
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
