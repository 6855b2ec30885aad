package config

import (
	"github.com/booster-finance/bes/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Token     TokenConfig     `mapstructure:"token"`
	Event     EventConfig     `mapstructure:"event"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// TokenConfig 资金工具配置
type TokenConfig struct {
	Backend    string `mapstructure:"backend"`     // 资金工具类型 (memory, erc20)
	RpcUrl     string `mapstructure:"rpc_url"`     // RPC节点URL（erc20时使用）
	PrivateKey string `mapstructure:"private_key"` // 服务私钥（erc20时使用）
	Address    string `mapstructure:"address"`     // ERC20合约地址
	ChainId    int64  `mapstructure:"chain_id"`    // 链ID
}

// EventConfig 审计事件配置
type EventConfig struct {
	PoolSize int `mapstructure:"pool_size"` // 异步落库协程池大小
}

type SchedulerConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/bes")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "escrow")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("token.backend", "memory")
	viper.SetDefault("token.chain_id", 1)
	viper.SetDefault("event.pool_size", 4)
	viper.SetDefault("scheduler.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
