package bus

import "github.com/zeusync/arkanoid/internal/core/observability/log"

// LogObserver traces every delivery at debug level. Registering it also turns
// on the bus metrics.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	return &LogObserver{logger: logger.Named("bus")}
}

func (o *LogObserver) OnPublish(string, Event) {}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error, durationMicros int64) {
	if err != nil {
		o.logger.Debug("event handlers failed",
			log.String("event_type", eventType),
			log.Int("handlers", handlers),
			log.Error(err),
		)
		return
	}
	o.logger.Debug("event delivered",
		log.String("event_type", eventType),
		log.Int("handlers", handlers),
		log.Int64("duration_us", durationMicros),
	)
}
