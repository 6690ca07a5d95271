package presentation

import (
	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/messaging"
)

// RabbitGateway publishes presentation events on a topic exchange, for the UI
// edge to translate into modals and toasts.
type RabbitGateway struct {
	sender *messaging.TopicSender
}

func NewRabbitGateway(url, prefix string) (*RabbitGateway, error) {
	sender, err := messaging.NewTopicSender(url, prefix, messaging.PresentationTopic)
	if err != nil {
		return nil, err
	}
	return &RabbitGateway{sender: sender}, nil
}

func (g *RabbitGateway) Close() error {
	return g.sender.Close()
}

func (g *RabbitGateway) send(data any) error {
	return g.sender.Send(data)
}

type detailEvent struct {
	Event string        `json:"event"`
	Item  *catalog.Item `json:"item,omitempty"`
}

type notifyEvent struct {
	Event         string     `json:"event"`
	Kind          NotifyKind `json:"kind"`
	Message       string     `json:"message"`
	AutoDismissMs int        `json:"auto_dismiss_ms,omitempty"`
}

func (g *RabbitGateway) ShowDetail(item catalog.Item) error {
	return g.send(detailEvent{Event: "show_detail", Item: &item})
}

func (g *RabbitGateway) HideDetail() error {
	return g.send(detailEvent{Event: "hide_detail"})
}

func (g *RabbitGateway) Notify(kind NotifyKind, message string, autoDismissMs int) error {
	return g.send(notifyEvent{Event: "notify", Kind: kind, Message: message, AutoDismissMs: autoDismissMs})
}

func (g *RabbitGateway) Confirm(message string) error {
	return g.send(notifyEvent{Event: "confirm", Message: message})
}
