package fillpublisherv1

import "context"

// FillPublisher defines the interface for publishing fill events.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=fillpublisherv1_mock
type FillPublisher interface {
	// PublishFill publishes a fill event to the fills topic.
	PublishFill(ctx context.Context, event *FillEvent) error
}
