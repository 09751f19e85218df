package usecasees

import (
	"fmt"
	"time"

	"signalcopier/internal/controllers"
	"signalcopier/internal/repository/mongo"
	"signalcopier/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// tgmUseCase bridges the Telegram update stream into the pipeline. Channel
// posts become raw messages; commands from the operator chat control the
// monitor. Updates are handled one at a time so per-channel order holds.
type tgmUseCase struct {
	tgmController controllers.TgmCtrl
	profileRepo   mongo.ChannelProfileRepo
	pipeline      *pipelineUseCase

	logger *logrus.Logger
}

func NewTgmUseCase(
	tgmController controllers.TgmCtrl,
	profileRepo mongo.ChannelProfileRepo,
	pipeline *pipelineUseCase,
	logger *logrus.Logger,
) *tgmUseCase {
	return &tgmUseCase{
		tgmController: tgmController,
		profileRepo:   profileRepo,
		pipeline:      pipeline,
		logger:        logger,
	}
}

// Listen blocks on the Telegram long-poll loop until the update channel
// closes. Call it from its own goroutine.
func (u *tgmUseCase) Listen() {
	u.subscribeEnabled()

	for update := range u.tgmController.GetUpdates() {
		switch {
		case update.ChannelPost != nil:
			u.handlePost(update.ChannelPost)
		case update.Message != nil:
			u.handleOperator(update.Message)
		}
	}
}

func (u *tgmUseCase) handlePost(post *tgbotapi.Message) {
	msg := &models.RawMessage{
		ChannelID:  post.Chat.ID,
		MessageID:  int64(post.MessageID),
		Text:       post.Text,
		ReceivedAt: time.Unix(int64(post.Date), 0),
	}
	if post.ReplyToMessage != nil {
		msg.ReplyToID = int64(post.ReplyToMessage.MessageID)
	}

	u.pipeline.HandleMessage(msg)
}

func (u *tgmUseCase) handleOperator(message *tgbotapi.Message) {
	if !u.tgmController.CheckChatID(message.Chat.ID) {
		return
	}

	switch message.Command() {
	case "ping":
		if err := u.tgmController.Send("pong"); err != nil {
			u.logger.WithError(err).Error("telegram send failed")
		}
	case "start":
		u.subscribeEnabled()
		if err := u.tgmController.Send("monitoring started"); err != nil {
			u.logger.WithError(err).Error("telegram send failed")
		}
	case "stop":
		u.pipeline.StopMonitoring()
		if err := u.tgmController.Send("monitoring stopped"); err != nil {
			u.logger.WithError(err).Error("telegram send failed")
		}
	case "channels":
		u.reportChannels()
	}
}

func (u *tgmUseCase) subscribeEnabled() {
	profiles, err := u.profileRepo.LoadAll()
	if err != nil {
		u.logger.WithError(err).Error("channel profile list load failed")
		return
	}

	var channelIDs []int64
	for _, profile := range profiles {
		if profile.Enabled {
			channelIDs = append(channelIDs, profile.ChannelID)
		}
	}

	u.pipeline.StartMonitoring(channelIDs)
	u.logger.WithField("channels", len(channelIDs)).Info("channel monitoring started")
}

func (u *tgmUseCase) reportChannels() {
	profiles, err := u.profileRepo.LoadAll()
	if err != nil {
		u.logger.WithError(err).Error("channel profile list load failed")
		return
	}

	out := "[ Channels ]\n"
	for _, profile := range profiles {
		state := "off"
		if profile.Enabled {
			state = "on"
		}
		out += fmt.Sprintf("%s\t%d\t%s\n", profile.Name, profile.ChannelID, state)
	}

	if err := u.tgmController.Send(out); err != nil {
		u.logger.WithError(err).Error("telegram send failed")
	}
}
