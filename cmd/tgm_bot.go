package main

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (a *App) initTgBot() error {
	bot, err := tgbotapi.NewBotAPI(a.Config.TelegramApiToken)
	if err != nil {
		return err
	}

	// Bot API tracing follows the app log level.
	bot.Debug = a.Config.LogLevel == "DEBUG"

	a.TGM = bot

	a.Logger.
		WithField("account", bot.Self.UserName).
		Info("telegram bot authorized")

	return nil
}
