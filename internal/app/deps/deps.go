package deps

import (
	"context"
	"sync"
	"time"

	"phonereset/internal/config"
	"phonereset/internal/core/brokers/passwordreset"
	dl "phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"
	dbtoken "phonereset/internal/db/token"
	dbuser "phonereset/internal/db/user"
	"phonereset/internal/implementations/logging"
	otpsender "phonereset/internal/implementations/otp_sender"
	passwordhasher "phonereset/internal/implementations/password_hasher"
	tokengenerator "phonereset/internal/implementations/token_generator"
	"phonereset/internal/rabbitmq"
	otpnotification "phonereset/internal/rabbitmq/publishers/otp_notification"
	redistoken "phonereset/internal/redis/token"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

const DefaultBrokerName = "users"

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UserRepository  user.UserRepository
	TokenRepository token.Repository
	TokenGenerator  token.Generator
	PasswordHasher  user.PasswordHasher
	OTPSender       user.ResetNotificationSender

	Broker   *passwordreset.Broker
	Registry *passwordreset.Registry
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.TokenGenerator = tokengenerator.NewHMAC(deps.Config.Secret)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)

	deps.initTokenRepository()
	closeOTPSender := deps.initOTPSender()

	deps.Broker = passwordreset.NewBroker(
		deps.Logger,
		deps.UserRepository,
		deps.TokenRepository,
		deps.OTPSender,
	)
	deps.Registry = passwordreset.NewRegistry(DefaultBrokerName)
	deps.Registry.Register(DefaultBrokerName, deps.Broker)

	return deps, func() {
		closeFuncs := []func(){
			closeOTPSender,
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initTokenRepository() {
	tokenConfig := dbtoken.Config{
		Table:           deps.Config.TokenTable,
		ExpiresMinutes:  deps.Config.TokenExpiresMinutes,
		ThrottleSeconds: deps.Config.TokenThrottleSeconds,
		OTPLength:       deps.Config.OTPLength,
	}
	if deps.Config.TokenStore == config.TokenStoreRedis {
		deps.TokenRepository = redistoken.NewRedisRepository(
			deps.Redis,
			deps.TokenGenerator,
			redistoken.Config{
				KeyPrefix:       deps.Config.TokenTable,
				ExpiresMinutes:  deps.Config.TokenExpiresMinutes,
				ThrottleSeconds: deps.Config.TokenThrottleSeconds,
				OTPLength:       deps.Config.OTPLength,
			},
			deps.Now,
		)
		return
	}
	deps.TokenRepository = dbtoken.NewPgxRepository(deps.DB, deps.TokenGenerator, tokenConfig, deps.Now)
}

func (deps *Deps) initOTPSender() func() {
	if deps.Config.OTPTransport == config.OTPTransportRabbitmq {
		return deps.initRabbitmqOTPSender()
	}

	deps.initAwsConfig()
	deps.OTPSender = otpsender.NewSNSSender(
		deps.AwsConfig,
		deps.Config.SmsSenderID,
		deps.Config.SmsMessageTemplate,
	)
	return func() {}
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initRabbitmqOTPSender() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection

	rabbitmqChannel, err := rabbitmqConnection.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	_, err = rabbitmqChannel.QueueDeclare(deps.Config.RabbitmqOTPRoutingKey, true, false, false, false, nil)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}
	if deps.Config.RabbitmqOTPExchange != "" {
		if err := rabbitmqChannel.QueueBind(
			deps.Config.RabbitmqOTPRoutingKey,
			deps.Config.RabbitmqOTPRoutingKey,
			deps.Config.RabbitmqOTPExchange,
			false,
			nil,
		); err != nil {
			deps.Logger.Error(context.Background(), "Could not bind queue to RabbitMQ exchange.", dl.Entry("err", err))
			panic(err)
		}
	}

	deps.OTPSender = otpnotification.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.RabbitmqOTPExchange,
		deps.Config.RabbitmqOTPRoutingKey,
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqChannel.Close()
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}
