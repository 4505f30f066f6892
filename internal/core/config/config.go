package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Env         string
	Mode        string   // gin 模式：debug | release | test
	CORSOrigins []string `mapstructure:"corsOrigins"` // 为空时允许所有来源
	HTTP        HTTP
	Admin       AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Feed 列表相关
type Feed struct {
	TopCurators int `mapstructure:"topCurators"` // 管理端「发文最多」取前 N
}

// Cache 排行类聚合的缓存时间
type Cache struct {
	RankingTTLSec   int `mapstructure:"rankingTTLSec"`
	DashboardTTLSec int `mapstructure:"dashboardTTLSec"`
}

// Admin 管理权限：角色来自令牌，Emails 额外授予（用于初始化管理员）
type Admin struct {
	Roles  []string `mapstructure:"roles"`
	Emails []string `mapstructure:"emails"`
}

type Config struct {
	App        App
	Log        Log
	JWT        JWT
	DB         DB
	Redis      Redis    `mapstructure:"redis"`
	Feed       Feed     `mapstructure:"feed"`
	Cache      Cache    `mapstructure:"cache"`
	Admin      Admin    `mapstructure:"admin"`
	Categories []string `mapstructure:"categories"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "whosbook")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "whosbook")
	v.SetDefault("jwt.accessTokenTTLMin", 60)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:whosbook.db")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("feed.topCurators", 5)
	v.SetDefault("cache.rankingTTLSec", 60)
	v.SetDefault("cache.dashboardTTLSec", 30)
	v.SetDefault("admin.roles", []string{"admin"})
}

// Read 读取配置文件并叠加 APP_ 前缀的环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
