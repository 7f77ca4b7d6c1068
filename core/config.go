package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// dev only: PROD must set <ENV>_SECRET_KEY (or JWT_SECRET)
const devSecretKey = "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy"

// Storage engines
const (
	EngineMongo    = "mongodb"
	EnginePostgres = "postgres"
	EngineMemory   = "memory"
)

// Email backends
const (
	EmailConsole  = "console"
	EmailSendgrid = "sendgrid"
	EmailSMTP     = "smtp"
)

type (
	Config struct {
		AppName          string
		Build            string
		Env              string
		Debug            bool
		TestMode         bool
		WorkDir          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		RollbarToken     string
		SendgridApiKey   string

		Server   ServerConfig
		Database DatabaseConfig
		Email    EmailConfig
	}

	ServerConfig struct {
		Host               string
		DebugHost          string
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DefaultPageLimit   int
		MaxPageLimit       int
		AllowedOrigins     []string
	}

	DatabaseConfig struct {
		Engine        string
		URI           string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	EmailConfig struct {
		Backend      string
		SMTPHost     string
		SMTPPort     string
		SMTPUser     string
		SMTPPassword string
	}
)

// Address returns the "host:port" of the SQL database.
func (dc DatabaseConfig) Address() string {
	return dc.Host + ":" + dc.Port
}

// Address returns the "host:port" of the SMTP relay.
func (ec EmailConfig) Address() string {
	return ec.SMTPHost + ":" + ec.SMTPPort
}

// NewConfig loads the configuration from the environment.
// ENV selects DEV (local; default), TEST, QA or PROD; its value is used as env prefix
// and `config/.env.<env>` is loaded if it exists.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("test_mode", env == "TEST")
	v.SetDefault("app_name", "Student Portal")
	v.SetDefault("build", "develop")
	v.SetDefault("frontend_base_url", "http://localhost:5173")
	v.SetDefault("default_from_email", "Student Portal <noreply@localhost>")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("secret_key", "")
	if env != "PROD" {
		v.SetDefault("secret_key", devSecretKey)
	}

	v.SetDefault("server.host", ":4000")
	v.SetDefault("server.debug_host", ":4010")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.jwt_expiration_delta", 7*24*time.Hour)
	v.SetDefault("server.default_page_limit", 10)
	v.SetDefault("server.max_page_limit", 100)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.engine", EngineMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "student_portal")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.admin_user", "postgres")
	v.SetDefault("database.admin_password", "postgres")
	v.SetDefault("database.disable_tls", env == "DEV" || env == "TEST")

	v.SetDefault("email.backend", EmailConsole)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", "25")
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// names used by the previous deployment
	_ = v.BindEnv("secret_key", env+"_SECRET_KEY", "JWT_SECRET")
	_ = v.BindEnv("database.uri", env+"_DATABASE_URI", "MONGO_URL")

	fromEmail, err := mail.ParseAddress(v.GetString("default_from_email"))
	if err != nil {
		log.Fatalf("config.default_from_email: %v", err)
	}

	host := v.GetString("server.host")
	if port := os.Getenv("PORT"); port != "" {
		host = ":" + port
	}

	return &Config{
		AppName:          v.GetString("app_name"),
		Build:            v.GetString("build"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("test_mode"),
		WorkDir:          workDir,
		SecretKey:        v.GetString("secret_key"),
		FrontendBaseURL:  v.GetString("frontend_base_url"),
		DefaultFromEmail: *fromEmail,
		RollbarToken:     v.GetString("rollbar_token"),
		SendgridApiKey:   v.GetString("sendgrid_api_key"),
		Server: ServerConfig{
			Host:               host,
			DebugHost:          v.GetString("server.debug_host"),
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			ShutdownTimeout:    v.GetDuration("server.shutdown_timeout"),
			JWTExpirationDelta: v.GetDuration("server.jwt_expiration_delta"),
			DefaultPageLimit:   v.GetInt("server.default_page_limit"),
			MaxPageLimit:       v.GetInt("server.max_page_limit"),
			AllowedOrigins:     v.GetStringSlice("server.allowed_origins"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			URI:           v.GetString("database.uri"),
			Name:          v.GetString("database.name"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.admin_user"),
			AdminPassword: v.GetString("database.admin_password"),
			DisableTLS:    v.GetBool("database.disable_tls"),
		},
		Email: EmailConfig{
			Backend:      strings.ToLower(v.GetString("email.backend")),
			SMTPHost:     v.GetString("email.smtp_host"),
			SMTPPort:     v.GetString("email.smtp_port"),
			SMTPUser:     v.GetString("email.smtp_user"),
			SMTPPassword: v.GetString("email.smtp_password"),
		},
	}
}
