package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	TokenStorePostgres = "postgres"
	TokenStoreRedis    = "redis"

	OTPTransportSNS      = "sns"
	OTPTransportRabbitmq = "rabbitmq"
)

type Config struct {
	Port           int      `env:"PORT" envDefault:"9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	Secret        string `env:"SECRET,required"`
	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL"`
	RabbitmqURL   string `env:"RABBITMQ_URL"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"10"`

	TokenStore           string        `env:"TOKEN_STORE" envDefault:"postgres"`
	TokenTable           string        `env:"TOKEN_TABLE" envDefault:"password_reset_token"`
	TokenExpiresMinutes  int           `env:"TOKEN_EXPIRES_MINUTES" envDefault:"60"`
	TokenThrottleSeconds int           `env:"TOKEN_THROTTLE_SECONDS" envDefault:"60"`
	TokenSweepPeriod     time.Duration `env:"TOKEN_SWEEP_PERIOD" envDefault:"1h"`
	OTPLength            int           `env:"OTP_LENGTH" envDefault:"4"`

	OTPTransport       string `env:"OTP_TRANSPORT" envDefault:"sns"`
	AwsRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey       string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey       string `env:"AWS_SECRET_KEY"`
	SmsSenderID        string `env:"SMS_SENDER_ID" envDefault:"phonereset"`
	SmsMessageTemplate string `env:"SMS_MESSAGE_TEMPLATE" envDefault:"Your password reset code is %s."`

	RabbitmqOTPExchange   string `env:"RABBITMQ_OTP_EXCHANGE"`
	RabbitmqOTPRoutingKey string `env:"RABBITMQ_OTP_ROUTING_KEY" envDefault:"password_reset_otp"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}

	switch config.TokenStore {
	case TokenStorePostgres:
	case TokenStoreRedis:
		if config.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL must be set when TOKEN_STORE is %q", TokenStoreRedis)
		}
	default:
		return nil, fmt.Errorf("invalid TOKEN_STORE value: %q", config.TokenStore)
	}

	switch config.OTPTransport {
	case OTPTransportSNS:
	case OTPTransportRabbitmq:
		if config.RabbitmqURL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL must be set when OTP_TRANSPORT is %q", OTPTransportRabbitmq)
		}
	default:
		return nil, fmt.Errorf("invalid OTP_TRANSPORT value: %q", config.OTPTransport)
	}

	return config, nil
}
