package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/ai"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/config/file"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/document"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/tracker"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driving/cli"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/services"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// loadServices builds the driving ports from the configuration in configDir.
// The AI service and tracker are optional here; refresh and push report
// their absence when they need them.
func loadServices(ctx context.Context, configDir string, withDocument bool) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("Using config %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	svc := &cli.Services{
		Settings:  settingsService,
		ConfigDir: filepath.Dir(configStore.Path()),
	}
	if !withDocument {
		return svc, func() {}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open prompts: %w", err)
	}

	var closers []func() error
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("close: %v", err)
			}
		}
	}

	llm, err := ai.CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("create AI service: %w", err)
	}
	if llm != nil {
		closers = append(closers, llm.Close)
		logger.Debug("AI provider %s, model %s", settings.LLM.Provider, llm.ModelName())
	}

	trk, err := tracker.Create(ctx, &settings.Tracker)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("create tracker: %w", err)
	}
	if trk != nil {
		closers = append(closers, trk.Close)
	}

	doc, err := document.Open(ctx, &settings.Document)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("open document: %w", err)
	}
	if doc == nil {
		release()
		return nil, nil, errors.New("no document configured: run `actionsync settings set document.id <id>`")
	}
	closers = append(closers, doc.Close)

	svc.Actions = services.NewActionItemService(services.ActionItemConfig{
		Document: doc,
		LLM:      llm,
		Tracker:  trk,
		Prompts:  prompts,
		Settings: *settings,
	})
	svc.Anchors = services.NewAnchorService(doc, settings.Document.AnchorID)

	return svc, release, nil
}
