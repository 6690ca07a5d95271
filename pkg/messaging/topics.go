package messaging

type ChangeTopic string

const (
	PresentationTopic   ChangeTopic = "presentation"
	TrackingTopic       ChangeTopic = "tracking"
	CatalogRefreshTopic ChangeTopic = "catalog_refresh"
)
