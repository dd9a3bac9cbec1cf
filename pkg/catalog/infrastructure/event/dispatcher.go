package event

import (
	"github.com/sirupsen/logrus"

	"catalogservice/pkg/catalog/domain/model"
)

// NewLogDispatcher returns a dispatcher that records every domain event in the log.
func NewLogDispatcher(logger logrus.FieldLogger) model.EventDispatcher {
	return &logDispatcher{logger: logger}
}

type logDispatcher struct {
	logger logrus.FieldLogger
}

func (d *logDispatcher) Dispatch(event model.Event) error {
	d.logger.WithFields(logrus.Fields{
		"type":    event.Type(),
		"payload": event,
	}).Info("domain event")
	return nil
}
