package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/viewer"
	"github.com/johnquangdev/caption-relay/internal/viewer/client"
	"github.com/johnquangdev/caption-relay/internal/viewer/tui"
)

// engineSink forwards stream events once the engine exists. The engine and
// the subscription reference each other, so one side is bound late.
type engineSink struct {
	engine *viewer.Engine
}

func (s *engineSink) Send(ctx context.Context, ev viewer.Event) bool {
	return s.engine.Send(ctx, ev)
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "caption relay base URL")
	eventID := flag.String("event", "", "event id to watch")
	language := flag.String("lang", "none", "translation language, or none for the original only")
	mode := flag.String("mode", "both", "view mode: original, translation or both")
	token := flag.String("token", "", "optional bearer token sent with the stream handshake")
	logPath := flag.String("log", "", "write diagnostics to this file")
	flag.Parse()

	if *eventID == "" {
		fmt.Fprintln(os.Stderr, "usage: viewer -event <id> [-lang es] [-mode both]")
		os.Exit(2)
	}

	viewMode, err := viewer.ParseViewMode(*mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	logger, err := newLogger(*logPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initial := viewer.NewState(*language, viewMode)

	var opts []client.SubscriptionOption
	opts = append(opts, client.WithSubscriptionLogger(logger))
	if *token != "" {
		opts = append(opts, client.WithHeader(http.Header{"Authorization": {"Bearer " + *token}}))
	}

	sink := &engineSink{}
	sub, err := client.NewSubscription(*baseURL, *eventID, initial.TargetLanguage, sink, opts...)
	if err != nil {
		log.Fatalf("Failed to create subscription: %v", err)
	}

	engine := viewer.NewEngine(
		client.NewHTTPSource(*baseURL, *eventID, nil),
		initial,
		viewer.WithScoper(sub),
		viewer.WithLogger(logger),
	)
	sink.engine = engine
	updates := engine.Watch()

	log.Printf("📡 Connecting to %s...", *baseURL)
	if err := sub.Connect(ctx); err != nil {
		if errors.Is(err, client.ErrStreamNotFound) {
			log.Fatalf("❌ Event %s not found", *eventID)
		}
		log.Fatalf("❌ Failed to connect: %v", err)
	}

	go engine.Run(ctx)
	go func() {
		if err := sub.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("❌ Stream subscription stopped", zap.Error(err))
		}
	}()

	program := tea.NewProgram(tui.New(ctx, engine, updates, "Caption Relay · "+*eventID), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Fatalf("Viewer exited: %v", err)
	}
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
