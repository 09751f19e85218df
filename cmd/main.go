package main

import (
	"flag"
	"strconv"
	"sync"

	httpAPI "signalcopier/internal/api/http"
	"signalcopier/internal/controllers"
	mongoRepo "signalcopier/internal/repository/mongo"
	"signalcopier/internal/repository/postgres"
	"signalcopier/internal/usecasees"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
)

func main() {
	var app App
	var confFileName string

	flag.StringVar(&confFileName, "config", ".env", "")
	flag.Parse()

	if err := app.loadConfig(confFileName); err != nil {
		panic(err)
	}

	app.initLogger()

	if err := app.initTgBot(); err != nil {
		panic(err)
	}

	if err := app.initDB(app.Config.DB); err != nil {
		panic(err)
	}

	if err := app.initMongo(); err != nil {
		panic(err)
	}

	if err := app.initLoki(); err != nil {
		app.Logger.WithError(err).Error("loki init failed")
	}

	app.initHTTPClient()
	app.initMetrics()

	chatID, err := strconv.ParseInt(app.Config.TelegramChatID, 10, 64)
	if err != nil {
		panic(err)
	}

	orderRepo := postgres.NewOrderRepository(app.DB)
	signalRepo := postgres.NewSignalRepository(app.DB)
	modRepo := postgres.NewModificationRepository(app.DB)
	groupRepo := postgres.NewGroupRepository(app.DB)
	riskRepo := postgres.NewRiskRepository(app.DB)

	profileRepo := mongoRepo.NewChannelProfileRepository(app.Mongo)
	accountRepo := mongoRepo.NewAccountProfileRepository(app.Mongo)

	if err := profileRepo.SetDefault(); err != nil {
		app.Logger.WithError(err).Error("default channel profile seed failed")
	}

	clientController := controllers.NewClientController(
		app.HTTPClient,
		app.Config.RelayToken,
		app.Logger,
	)
	tgmController := controllers.NewTgmController(
		app.TGM,
		chatID,
	)

	bus := usecasees.NewBus()

	balance := func(accountID, platform string) float64 {
		account, err := accountRepo.Load(accountID)
		if err != nil {
			app.Logger.WithError(err).WithField("account", accountID).Error("account profile load failed")
			return 0
		}

		return account.Balance
	}

	parserUseCase := usecasees.NewParserUseCase(app.Logger)
	filterUseCase := usecasees.NewFilterUseCase(app.Logger)
	modUseCase := usecasees.NewModUseCase(signalRepo, app.Logger)
	routerUseCase := usecasees.NewRouterUseCase(orderRepo, app.Logger)
	groupUseCase := usecasees.NewGroupUseCase(groupRepo, orderRepo, app.Logger)
	riskUseCase := usecasees.NewRiskUseCase(riskRepo, orderRepo, balance, bus, app.Logger)
	queueUseCase := usecasees.NewQueueUseCase(clientController, app.Config.RelayURL, app.Logger)

	notify := func(text string) {
		if err := tgmController.Send(text); err != nil {
			app.Logger.WithError(err).Error("telegram send failed")
		}
	}

	pipelineUseCase := usecasees.NewPipelineUseCase(
		parserUseCase,
		filterUseCase,
		modUseCase,
		routerUseCase,
		groupUseCase,
		riskUseCase,
		queueUseCase,
		bus,
		signalRepo,
		orderRepo,
		modRepo,
		profileRepo,
		accountRepo,
		notify,
		app.Metrics,
		app.Logger,
	)

	tgmUseCase := usecasees.NewTgmUseCase(
		tgmController,
		profileRepo,
		pipelineUseCase,
		app.Logger,
	)

	f := fiber.New()

	middleware := httpAPI.NewMiddleware(f, app.Config.AppName)
	middleware.UseMetrics()

	httpAPI.RegisterHTTPEndpoints(f, queueUseCase, pipelineUseCase, app.Logger)

	go func() {
		if err := f.Listen(":" + app.Config.HTTPPort); err != nil {
			app.Logger.WithError(err).Fatal("http server failed")
		}
	}()

	scheduler := cron.New()

	if _, err := scheduler.AddFunc("* * * * *", pipelineUseCase.RiskResetCheck); err != nil {
		panic(err)
	}

	if _, err := scheduler.AddFunc("@every 30s", pipelineUseCase.ReconcileExecuted); err != nil {
		panic(err)
	}

	if _, err := scheduler.AddFunc("@daily", pipelineUseCase.PurgeGroups); err != nil {
		panic(err)
	}

	scheduler.Start()

	go tgmUseCase.Listen()

	app.Logger.WithField("port", app.Config.HTTPPort).Info("signal copier started")

	var wg sync.WaitGroup
	wg.Add(1)
	wg.Wait()
}
