package config

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type   string `yaml:"type" json:"type"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "metrics"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "AgriMarket",
		Location: "Asia/Kolkata",
		Workdir:  "/var/agrimarket",
		Debug:    false,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1980,
		Secret: "9b6de5cc-agrimarket-b712-7ccf86029fee",
	},
	Database: DBConfig{
		Type:   "postgres",
		Host:   "127.0.0.1",
		Port:   5432,
		Name:   "agrimarket",
		User:   "postgres",
		Passwd: "",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/agrimarket/agrimarket.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		if p, err := strconv.ParseInt(evalue, 10, 64); err == nil {
			*val = int(p)
		}
	}
}

// LoadConfig loads the yaml configuration file and applies environment
// variable overrides. A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	if FileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(fmt.Errorf("config parse error: %w", err))
		}
	} else {
		cfg = DefaultAppConfig
	}

	setEnvValue("AGRIMARKET_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("AGRIMARKET_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("AGRIMARKET_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("AGRIMARKET_WEB_HOST", &cfg.Web.Host)
	setEnvValue("AGRIMARKET_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("AGRIMARKET_WEB_PORT", &cfg.Web.Port)

	setEnvValue("AGRIMARKET_DB_TYPE", &cfg.Database.Type)
	setEnvValue("AGRIMARKET_DB_HOST", &cfg.Database.Host)
	setEnvValue("AGRIMARKET_DB_NAME", &cfg.Database.Name)
	setEnvValue("AGRIMARKET_DB_USER", &cfg.Database.User)
	setEnvValue("AGRIMARKET_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("AGRIMARKET_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("AGRIMARKET_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("AGRIMARKET_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("AGRIMARKET_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("AGRIMARKET_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.initDirs()
	return cfg
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}
