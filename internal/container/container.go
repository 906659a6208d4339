package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/config"
	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/internal/infrastructure/coingecko"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager
	google     *helpers.GoogleVerifier

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client

	coinGecko *coingecko.Client
	markets   *application.MarketService
	feed      *application.MarketFeed
	monitor   *application.Monitor
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

// RedisCmd returns the shared client as redis.Cmdable, or a nil interface
// when Redis is not configured.
func RedisCmd() redis.Cmdable {
	if redisClient == nil {
		return nil
	}
	return redisClient
}

func SetGoogleVerifier(v *helpers.GoogleVerifier) { google = v }
func GetGoogleVerifier() *helpers.GoogleVerifier  { return google }
func SetRabbitPub(p *helpers.RabbitPublisher)     { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher      { return rabbitPub }
func SetES(c *elasticsearch.Client)               { esClient = c }
func GetES() *elasticsearch.Client                { return esClient }

func SetCoinGecko(c *coingecko.Client)        { coinGecko = c }
func GetCoinGecko() *coingecko.Client         { return coinGecko }
func SetMarkets(s *application.MarketService) { markets = s }
func GetMarkets() *application.MarketService  { return markets }
func SetMarketFeed(f *application.MarketFeed) { feed = f }
func GetMarketFeed() *application.MarketFeed  { return feed }
func SetMonitor(m *application.Monitor)       { monitor = m }
func GetMonitor() *application.Monitor        { return monitor }
