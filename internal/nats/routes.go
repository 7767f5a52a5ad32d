package nats

import (
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/surgical-vision/scan-service/internal/api/handlers"
	"github.com/surgical-vision/scan-service/internal/services"
)

// Routes maps event subjects to their consumers.
func Routes() map[string]nats.MsgHandler {
	return map[string]nats.MsgHandler{
		"scans.uploaded": handlers.HandleScanUploaded,
		"scans.assessed": handlers.HandleScanAssessed,
		"scans.deleted":  handlers.HandleScanDeleted,
	}
}

// SubscribeAll registers every route as a durable JetStream consumer.
func SubscribeAll(routes map[string]nats.MsgHandler) error {
	for subject, handler := range routes {
		// Durable names cannot contain dots.
		durable := "scan-service-" + strings.ReplaceAll(subject, ".", "-")
		if _, err := services.SubscribeEvent(subject, durable, handler); err != nil {
			return err
		}
	}
	return nil
}
