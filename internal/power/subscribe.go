package power

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/domain"
)

// registerFunc subscribes the endpoint to one class and returns its undo.
type registerFunc func(class domain.NotificationClass) (unregister func() error, err error)

// subscribeAll attempts every registration and checks each one. If any fails
// the successful ones are rolled back and a joined error is returned.
func subscribeAll(classes []domain.NotificationClass, register registerFunc, logger *zap.Logger) (func() error, error) {
	logger.Info("Registering power notifications")

	var (
		undo []func() error
		errs []error
	)
	for _, c := range classes {
		unregister, err := register(c)
		if err != nil {
			logger.Warn("Failed to register notification",
				zap.String("class", c.ID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.ID, err))
			continue
		}
		undo = append(undo, unregister)
	}

	release := func() error {
		var err error
		for i := len(undo) - 1; i >= 0; i-- {
			err = errors.Join(err, undo[i]())
		}
		return err
	}

	if len(errs) > 0 {
		_ = release()
		return nil, fmt.Errorf("failed to subscribe to power notifications: %w", errors.Join(errs...))
	}
	return release, nil
}
