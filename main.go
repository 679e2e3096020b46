package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Retro788/Euclidian-VisionModel/cmd"
	"github.com/Retro788/Euclidian-VisionModel/envconfig"
	"github.com/Retro788/Euclidian-VisionModel/logutil"
	_ "github.com/Retro788/Euclidian-VisionModel/model/models"
)

func main() {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))

	if err := cmd.NewCLI().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
