package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Shipping      ShippingConfig
	Checkout      CheckoutConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AKAY_APP_ENV" required:"true"`
	Port         string `envconfig:"AKAY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AKAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AKAY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AKAY_DB_DSN"`
	Driver string `envconfig:"AKAY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AKAY_DB_HOST"`
	LegacyPort     int    `envconfig:"AKAY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AKAY_DB_USER"`
	LegacyPassword string `envconfig:"AKAY_DB_PASSWORD"`
	LegacyName     string `envconfig:"AKAY_DB_NAME"`
	LegacySSLMode  string `envconfig:"AKAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AKAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AKAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AKAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AKAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AKAY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AKAY_REDIS_ADDR"`
	Password     string        `envconfig:"AKAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"AKAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AKAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AKAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AKAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AKAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AKAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AKAY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AKAY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AKAY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AKAY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AKAY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AKAY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AKAY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AKAY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AKAY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AKAY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AKAY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AKAY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AKAY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AKAY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AKAY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AKAY_AUTO_MIGRATE" default:"false"`
}

// ShippingConfig drives the RajaOngkir rate lookup and the warehouse origin
// fallback used when a product has no warehouse of its own.
type ShippingConfig struct {
	RajaOngkirAPIKey    string        `envconfig:"AKAY_RAJAONGKIR_API_KEY"`
	RajaOngkirBaseURL   string        `envconfig:"AKAY_RAJAONGKIR_BASE_URL"`
	RajaOngkirTimeout   time.Duration `envconfig:"AKAY_RAJAONGKIR_TIMEOUT" default:"5s"`
	DefaultOriginCityID string        `envconfig:"AKAY_SHIPPING_DEFAULT_ORIGIN_CITY_ID"`
	DefaultOriginCity   string        `envconfig:"AKAY_SHIPPING_DEFAULT_ORIGIN_CITY"`
}

// Enabled reports whether the live rate lookup is configured at all. When it
// is not, every shipment quote resolves through the courier fallback cost.
func (s ShippingConfig) Enabled() bool {
	return strings.TrimSpace(s.RajaOngkirAPIKey) != ""
}

type CheckoutConfig struct {
	ItemWeightGrams int `envconfig:"AKAY_CHECKOUT_ITEM_WEIGHT_GRAMS" default:"500"`
	UniqueCodeMax   int `envconfig:"AKAY_CHECKOUT_UNIQUE_CODE_MAX" default:"899"`
	UniqueCodeRolls int `envconfig:"AKAY_CHECKOUT_UNIQUE_CODE_ROLLS" default:"3"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"AKAY_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
