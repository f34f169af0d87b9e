package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, upstream URLs, etc.), security settings
// - default: Values common across all environments (timezone, timeout, pricing constants, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
	JWT          JWTConfig
	Cookie       CookieConfig
	Services     ServicesConfig
	Checkout     CheckoutConfig
	Verification VerificationConfig
	RateLimit    RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" required:"true"`
	Password    string `envconfig:"DB_PASSWORD" required:"true"`
	DBName      string `envconfig:"DB_NAME" required:"true"`
	SSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string `envconfig:"DB_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	MigrateDir  string `envconfig:"DB_MIGRATE_DIR" default:"migrations"`
}

// Enabled=false keeps checkout sessions and tokens in process memory (single instance only).
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Checkout-Session"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Checkout-Session"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"25200"` // 7*60*60
}

// Secret is shared with the user service; an empty secret disables claim verification.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" default:""`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAMESITE" default:"Lax"`
}

type ServicesConfig struct {
	BookingURL   string        `envconfig:"BOOKING_SERVICE_URL" required:"true"`
	InventoryURL string        `envconfig:"INVENTORY_SERVICE_URL" required:"true"`
	PaymentURL   string        `envconfig:"PAYMENT_SERVICE_URL" required:"true"`
	HTTPTimeout  time.Duration `envconfig:"SERVICES_HTTP_TIMEOUT" default:"10s"`
}

type CheckoutConfig struct {
	SingleRoomSupplement int64         `envconfig:"CHECKOUT_SINGLE_ROOM_SUPPLEMENT" default:"1400000"`
	DefaultGender        string        `envconfig:"CHECKOUT_DEFAULT_GENDER" default:"Nam"`
	SessionTTL           time.Duration `envconfig:"CHECKOUT_SESSION_TTL" default:"2h"`
	HomeURL              string        `envconfig:"CHECKOUT_HOME_URL" default:"/"`
	ProductType          string        `envconfig:"CHECKOUT_PRODUCT_TYPE" default:"tour"`
}

type VerificationConfig struct {
	MaxAttempts    uint64        `envconfig:"VERIFY_MAX_ATTEMPTS" default:"3"`
	InitialBackoff time.Duration `envconfig:"VERIFY_INITIAL_BACKOFF" default:"200ms"`
	MaxBackoff     time.Duration `envconfig:"VERIFY_MAX_BACKOFF" default:"2s"`
}

type RateLimitConfig struct {
	PromotionPerMinute int `envconfig:"RATE_LIMIT_PROMOTION_PER_MINUTE" default:"30"`
	PromotionBurst     int `envconfig:"RATE_LIMIT_PROMOTION_BURST" default:"5"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:       "localhost",
			Port:       "15433", // Test DB port
			User:       "test",
			Password:   "test",
			DBName:     "test_db",
			SSLMode:    "disable",
			TimeZone:   "Asia/Ho_Chi_Minh",
			MaxConns:   5,
			MigrateDir: "migrations",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Ho_Chi_Minh",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 25200,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Services: ServicesConfig{
			BookingURL:   "http://booking.test",
			InventoryURL: "http://inventory.test",
			PaymentURL:   "http://payment.test",
			HTTPTimeout:  2 * time.Second,
		},
		Checkout: CheckoutConfig{
			SingleRoomSupplement: 1400000,
			DefaultGender:        "Nam",
			SessionTTL:           time.Hour,
			HomeURL:              "/",
			ProductType:          "tour",
		},
		Verification: VerificationConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			PromotionPerMinute: 600,
			PromotionBurst:     100,
		},
	}
}
