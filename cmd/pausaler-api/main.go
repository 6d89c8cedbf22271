// Command pausaler-api runs the local license API consumed by the
// desktop UI.
package main

import (
	"context"
	"log/slog"
	"os"

	"pausaler/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
