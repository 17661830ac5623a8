package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const defaultSuperAdminEmail = "admin@trackmyacademy.com"

type (
	ServerConfig struct {
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
		// TrustedProxies lists the CIDRs whose X-Forwarded-For header names the client.
		TrustedProxies []string
	}

	AuthConfig struct {
		JWTSecret        string
		JWTAudience      string
		SuperAdminEmails []string
		StrictBindings   bool
	}

	DatabaseConfig struct {
		Engine   string // mongodb | memory
		MongoURI string
		Name     string
	}

	BindingsConfig struct {
		Engine        string // mongodb | postgres | memory
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Address  string
		Password string
		DB       int
	}

	RateLimitConfig struct {
		Requests int
		Window   time.Duration
	}

	MailConfig struct {
		From            mail.Address
		SendgridAPIKey  string
		FrontendBaseURL string
	}

	AnalyticsConfig struct {
		WindowDays    int
		DefaultTarget float64
	}

	SchedulerConfig struct {
		Interval         time.Duration
		RetryDelay       time.Duration
		ReminderCooldown time.Duration
	}

	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string

		Server    ServerConfig
		Auth      AuthConfig
		Database  DatabaseConfig
		Bindings  BindingsConfig
		Redis     RedisConfig
		RateLimit RateLimitConfig
		Mail      MailConfig
		Analytics AnalyticsConfig
		Scheduler SchedulerConfig
	}
)

// Address returns the host:port of the role bindings database.
func (c BindingsConfig) Address() string {
	return c.Host + ":" + c.Port
}

// IsSuperAdminEmail reports whether email is on the super-admin allow-list.
// The comparison is case-insensitive and otherwise exact.
func (c AuthConfig) IsSuperAdminEmail(email string) bool {
	email = strings.ToLower(email)
	if email == "" {
		return false
	}
	for _, allowed := range c.SuperAdminEmails {
		if strings.ToLower(allowed) == email {
			return true
		}
	}
	return false
}

func cleanEmails(emails []string) []string {
	res := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = CleanString(e, true /* lower */); e != "" {
			res = append(res, e)
		}
	}
	return res
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "TrackMyAcademy")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.trustedProxies", []string{})

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.jwtAudience", "authenticated")
	v.SetDefault("auth.superAdminEmails", []string{defaultSuperAdminEmail})
	v.SetDefault("auth.strictBindings", false)

	v.SetDefault("database.engine", "mongodb")
	v.SetDefault("database.mongoURI", "mongodb://localhost:27017")
	v.SetDefault("database.name", "track_my_academy")

	v.SetDefault("bindings.engine", "mongodb")
	v.SetDefault("bindings.host", "localhost")
	v.SetDefault("bindings.port", "5432")
	v.SetDefault("bindings.name", "trackmyacademy")
	v.SetDefault("bindings.user", "trackmyacademy")
	v.SetDefault("bindings.password", "")
	v.SetDefault("bindings.adminUser", "postgres")
	v.SetDefault("bindings.adminPassword", "")
	v.SetDefault("bindings.disableTLS", true)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rateLimit.requests", 5)
	v.SetDefault("rateLimit.window", 60*time.Minute)

	v.SetDefault("mail.fromName", "TrackMyAcademy")
	v.SetDefault("mail.fromAddress", "noreply@localhost")
	v.SetDefault("mail.sendgridAPIKey", "")
	v.SetDefault("mail.frontendBaseURL", "http://localhost:3000")

	v.SetDefault("analytics.windowDays", 180)
	v.SetDefault("analytics.defaultTarget", 8.0)

	v.SetDefault("scheduler.interval", 24*time.Hour)
	v.SetDefault("scheduler.retryDelay", time.Hour)
	v.SetDefault("scheduler.reminderCooldown", 24*time.Hour)
}

// NewConfig loads the configuration from defaults, an optional `config/.env.<env>` file
// and the environment (prefixed with the upper-cased ENV, e.g. `PROD_AUTH_JWTSECRET`).
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v, env), nil
}

func fromViper(v *viper.Viper, env string) *Config {
	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			DebugAddress:    v.GetString("server.debugAddress"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
			TrustedProxies:  v.GetStringSlice("server.trustedProxies"),
		},
		Auth: AuthConfig{
			JWTSecret:        v.GetString("auth.jwtSecret"),
			JWTAudience:      v.GetString("auth.jwtAudience"),
			SuperAdminEmails: cleanEmails(v.GetStringSlice("auth.superAdminEmails")),
			StrictBindings:   v.GetBool("auth.strictBindings"),
		},
		Database: DatabaseConfig{
			Engine:   v.GetString("database.engine"),
			MongoURI: v.GetString("database.mongoURI"),
			Name:     v.GetString("database.name"),
		},
		Bindings: BindingsConfig{
			Engine:        v.GetString("bindings.engine"),
			Host:          v.GetString("bindings.host"),
			Port:          v.GetString("bindings.port"),
			Name:          v.GetString("bindings.name"),
			User:          v.GetString("bindings.user"),
			Password:      v.GetString("bindings.password"),
			AdminUser:     v.GetString("bindings.adminUser"),
			AdminPassword: v.GetString("bindings.adminPassword"),
			DisableTLS:    v.GetBool("bindings.disableTLS"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rateLimit.requests"),
			Window:   v.GetDuration("rateLimit.window"),
		},
		Mail: MailConfig{
			From:            mail.Address{Name: v.GetString("mail.fromName"), Address: v.GetString("mail.fromAddress")},
			SendgridAPIKey:  v.GetString("mail.sendgridAPIKey"),
			FrontendBaseURL: v.GetString("mail.frontendBaseURL"),
		},
		Analytics: AnalyticsConfig{
			WindowDays:    v.GetInt("analytics.windowDays"),
			DefaultTarget: v.GetFloat64("analytics.defaultTarget"),
		},
		Scheduler: SchedulerConfig{
			Interval:         v.GetDuration("scheduler.interval"),
			RetryDelay:       v.GetDuration("scheduler.retryDelay"),
			ReminderCooldown: v.GetDuration("scheduler.reminderCooldown"),
		},
	}
}

// NewTestConfig returns the configuration used by package tests.
func NewTestConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.Set("debug", false)
	v.Set("testMode", true)
	v.Set("database.engine", "memory")
	v.Set("bindings.engine", "memory")
	v.Set("auth.jwtSecret", "test-secret")
	v.Set("server.disableReqLogs", true)
	return fromViper(v, "TEST")
}
