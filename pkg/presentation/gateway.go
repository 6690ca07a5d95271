package presentation

import (
	"log"

	"github.com/matst80/slask-storefront/pkg/catalog"
)

type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyWarning NotifyKind = "warning"
	NotifyError   NotifyKind = "error"
)

// Gateway is the thin adapter driving the client-facing modal and toast
// layers. It owns no business state; implementations only forward events.
type Gateway interface {
	ShowDetail(item catalog.Item) error
	HideDetail() error
	Notify(kind NotifyKind, message string, autoDismissMs int) error
	Confirm(message string) error
}

// LogGateway is the fallback when no event transport is configured.
type LogGateway struct{}

func (LogGateway) ShowDetail(item catalog.Item) error {
	log.Printf("presentation: show detail for item %d", item.Id)
	return nil
}

func (LogGateway) HideDetail() error {
	log.Printf("presentation: hide detail")
	return nil
}

func (LogGateway) Notify(kind NotifyKind, message string, autoDismissMs int) error {
	log.Printf("presentation: notify %s: %s", kind, message)
	return nil
}

func (LogGateway) Confirm(message string) error {
	log.Printf("presentation: confirm: %s", message)
	return nil
}
