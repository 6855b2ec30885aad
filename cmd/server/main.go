package main

import (
	"github.com/booster-finance/bes/internal/chain"
	"github.com/booster-finance/bes/internal/config"
	"github.com/booster-finance/bes/internal/database"
	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/event"
	"github.com/booster-finance/bes/internal/logger"
	"github.com/booster-finance/bes/internal/logic"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/booster-finance/bes/internal/reward"
	"github.com/booster-finance/bes/internal/router"
	"github.com/booster-finance/bes/internal/scheduler"
	"github.com/booster-finance/bes/internal/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg.Log)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化资金工具
	collab, err := setupCollaborators(cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize collaborators: %v", err)
	}

	// 托管实例注册表
	reg := registry.New()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, reg, collab)

	// 启动定时任务
	manager := scheduler.Start(db, reg, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// setupLogger 根据配置初始化默认日志器
func setupLogger(cfg config.LogConfig) {
	level := logger.ParseLogLevel(cfg.Level)

	if cfg.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
		return
	}

	l, err := logger.New(level)
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}

// setupCollaborators 按配置选择资金工具后端并装配协作者
func setupCollaborators(cfg *config.Config, db *gorm.DB) (logic.Collaborators, error) {
	sink, err := event.NewAsyncSink(cfg.Event.PoolSize, event.NewDBRecorder(db))
	if err != nil {
		return logic.Collaborators{}, err
	}

	collab := logic.Collaborators{
		Rewards: reward.New(),
		Sink:    sink,
	}

	switch cfg.Token.Backend {
	case "erc20":
		client, err := chain.Init(cfg.Token)
		if err != nil {
			return logic.Collaborators{}, err
		}
		instrument, err := chain.NewERC20(client, common.HexToAddress(cfg.Token.Address))
		if err != nil {
			return logic.Collaborators{}, err
		}
		// 链上模式下所有实例共用服务账户作为托管账户
		collab.Account = client.Account()
		collab.Token = func(common.Address) escrow.ValueInstrument {
			return instrument
		}
	default:
		ledger := token.New()
		collab.Token = func(account common.Address) escrow.ValueInstrument {
			return ledger.Bind(account)
		}
	}

	return collab, nil
}
