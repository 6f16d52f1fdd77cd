package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// GoogleConfig holds the OAuth client ID that issued ID tokens must be
// audience-checked against.
type GoogleConfig struct {
	ClientID string `yaml:"client_id"`
}

// AdminConfig holds the admin panel credentials. PasswordHash is a bcrypt
// hash, never the plaintext password.
type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// EmailConfig configures the outbound notifier used by the worker.
type EmailConfig struct {
	APIKey       string `yaml:"api_key"`
	From         string `yaml:"from"`
	AdminAddress string `yaml:"admin_address"`
}

type Config struct {
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	MQ     MQConfig     `yaml:"mq"`
	JWT    JWTConfig    `yaml:"jwt"`
	Server ServerConfig `yaml:"server"`
	Google GoogleConfig `yaml:"google"`
	Admin  AdminConfig  `yaml:"admin"`
	Email  EmailConfig  `yaml:"email"`
}

func Load() *Config {
	f, err := os.Open("config.yaml")
	if err != nil {
		log.Fatalf("failed to open config.yaml: %v", err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config.yaml: %v", err)
	}

	overrideFromEnv(&cfg)

	return &cfg
}

func overrideFromEnv(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		cfg.Google.ClientID = clientID
	}

	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		cfg.Admin.Username = username
	}
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		cfg.Admin.PasswordHash = hash
	}

	if key := os.Getenv("EMAIL_API_KEY"); key != "" {
		cfg.Email.APIKey = key
	}
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		cfg.Email.From = from
	}
	if addr := os.Getenv("EMAIL_ADMIN_ADDRESS"); addr != "" {
		cfg.Email.AdminAddress = addr
	}
}
