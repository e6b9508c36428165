package errprocess

import (
	"errors"
	"fmt"

	"messaging_service/pkg/logger"

	"go.uber.org/zap"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap log err with msg and return it wrapped, nil stays nil
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	logger.Log.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}
