//go:build !protogen

package main

import (
	"context"
	"log/slog"

	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/storage"
)

func startGrpcServer(_ context.Context, _ *slog.Logger, _ *storage.DoctorRepository) error {
	return nil
}
