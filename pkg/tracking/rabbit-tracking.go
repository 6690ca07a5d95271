package tracking

import (
	"log"
	"net/http"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/messaging"
)

type RabbitTracking struct {
	sender *messaging.TopicSender
}

func NewRabbitTracking(url, prefix string) (*RabbitTracking, error) {
	sender, err := messaging.NewTopicSender(url, prefix, messaging.TrackingTopic)
	if err != nil {
		return nil, err
	}
	return &RabbitTracking{sender: sender}, nil
}

func (t *RabbitTracking) Close() error {
	return t.sender.Close()
}

func (t *RabbitTracking) send(data any) error {
	return t.sender.Send(data)
}

type BaseEvent struct {
	SessionId int    `json:"session_id"`
	Event     uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (rt *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	err := rt.send(Session{
		BaseEvent: &BaseEvent{Event: 0, SessionId: sessionId},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        ip,
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

type SearchEvent struct {
	*BaseEvent
	Category        string `json:"category"`
	Query           string `json:"query"`
	NumberOfResults int    `json:"noi"`
}

func (rt *RabbitTracking) TrackSearch(sessionId int, category string, query string, resultLen int) {
	err := rt.send(&SearchEvent{
		BaseEvent:       &BaseEvent{Event: 1, SessionId: sessionId},
		Category:        category,
		Query:           query,
		NumberOfResults: resultLen,
	})
	if err != nil {
		log.Println("Error sending search event: ", err)
	}
}

type DetailEvent struct {
	*BaseEvent
	Item catalog.ItemId `json:"item"`
}

func (rt *RabbitTracking) TrackDetailView(sessionId int, itemId catalog.ItemId) {
	err := rt.send(&DetailEvent{
		BaseEvent: &BaseEvent{Event: 2, SessionId: sessionId},
		Item:      itemId,
	})
	if err != nil {
		log.Println("Error sending detail event: ", err)
	}
}

type CartEvent struct {
	*BaseEvent
	Item     catalog.ItemId `json:"item"`
	Quantity int            `json:"quantity"`
}

func (rt *RabbitTracking) TrackAddToCart(sessionId int, itemId catalog.ItemId, quantity int) {
	err := rt.send(&CartEvent{
		BaseEvent: &BaseEvent{Event: 3, SessionId: sessionId},
		Item:      itemId,
		Quantity:  quantity,
	})
	if err != nil {
		log.Println("Error sending cart event: ", err)
	}
}

type QuantityEvent struct {
	*BaseEvent
	Item  catalog.ItemId `json:"item"`
	Delta int            `json:"delta"`
}

// TrackQuantityChange reports a delta on an existing cart line, negative
// deltas included. Adding a new line is reported through TrackAddToCart.
func (rt *RabbitTracking) TrackQuantityChange(sessionId int, itemId catalog.ItemId, delta int) {
	err := rt.send(&QuantityEvent{
		BaseEvent: &BaseEvent{Event: 5, SessionId: sessionId},
		Item:      itemId,
		Delta:     delta,
	})
	if err != nil {
		log.Println("Error sending quantity event: ", err)
	}
}

type CheckoutEvent struct {
	*BaseEvent
	Total     float64 `json:"total"`
	LineCount int     `json:"lines"`
}

func (rt *RabbitTracking) TrackCheckout(sessionId int, total float64, lineCount int) {
	err := rt.send(&CheckoutEvent{
		BaseEvent: &BaseEvent{Event: 4, SessionId: sessionId},
		Total:     total,
		LineCount: lineCount,
	})
	if err != nil {
		log.Println("Error sending checkout event: ", err)
	}
}
