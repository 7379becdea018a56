package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/zeta-network/zetad/internal/core/domain"
)

const (
	// ListenAddrKey is the address where the HTTP interface will listen on.
	ListenAddrKey = "LISTEN_ADDR"
	// DatadirKey is the local data directory to store the internal state of
	// the daemon.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported.
	DBTypeKey = "DB_TYPE"
	// AuthSecretKey is the HS256 secret validating the callers' bearer
	// tokens.
	AuthSecretKey = "AUTH_SECRET"
	// AdminAddrKey is the identity granted every role when the policy is
	// first initialized.
	AdminAddrKey = "ADMIN_ADDR"
	// TreasuryAddrKey is the protocol treasury receiving the fee share.
	TreasuryAddrKey = "TREASURY_ADDR"
	// SettlementAssetKey is the asset every escrow is denominated in.
	SettlementAssetKey = "SETTLEMENT_ASSET"
	// TreasuryBpsKey is the protocol fee share in basis points.
	TreasuryBpsKey = "TREASURY_BPS"
	// DefaultHoldbackBpsKey is the default escrowed holdback share.
	DefaultHoldbackBpsKey = "DEFAULT_HOLDBACK_BPS"
	// DefaultMicrobondBpsKey is the default agent microbond share.
	DefaultMicrobondBpsKey = "DEFAULT_MICROBOND_BPS"
	// MaxHoldbackBpsKey caps the holdback share a quote may carry.
	MaxHoldbackBpsKey = "MAX_HOLDBACK_BPS"
	// MaxMicrobondBpsKey caps the microbond share a quote may carry.
	MaxMicrobondBpsKey = "MAX_MICROBOND_BPS"
	// FaultRefundBpsKey is the buyer refund share of an upheld claim.
	FaultRefundBpsKey = "FAULT_REFUND_BPS"
	// FaultTreasuryBpsKey is the treasury share of an upheld claim.
	FaultTreasuryBpsKey = "FAULT_TREASURY_BPS"
	// WeightPriceBpsKey weights the fee term of the selection score.
	WeightPriceBpsKey = "WEIGHT_PRICE_BPS"
	// WeightEtaBpsKey weights the eta term of the selection score.
	WeightEtaBpsKey = "WEIGHT_ETA_BPS"
	// WeightRiskBpsKey weights the risk term of the selection score.
	WeightRiskBpsKey = "WEIGHT_RISK_BPS"
	// ClaimWindowKey is the duration of the post-completion claim window.
	ClaimWindowKey = "CLAIM_WINDOW"
	// AckWindowKey is the duration of the selection acknowledgement window.
	AckWindowKey = "ACK_WINDOW"
	// WebhookDbDirKey overrides the location of the webhook registry store.
	WebhookDbDirKey = "WEBHOOK_DB_DIR"

	DbLocation      = "db"
	WebhookLocation = "webhooks"

	// DBBadger and DBInMemory are the supported DB_TYPE values.
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var vip *viper.Viper

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zetad"
	}
	return filepath.Join(home, ".zetad")
}

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("ZETA")
	vip.AutomaticEnv()

	vip.SetDefault(ListenAddrKey, ":9945")
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(AdminAddrKey, "admin")
	vip.SetDefault(TreasuryAddrKey, "treasury")
	vip.SetDefault(SettlementAssetKey, "zusd")
	vip.SetDefault(TreasuryBpsKey, 500)
	vip.SetDefault(DefaultHoldbackBpsKey, 500)
	vip.SetDefault(DefaultMicrobondBpsKey, 500)
	vip.SetDefault(MaxHoldbackBpsKey, 2000)
	vip.SetDefault(MaxMicrobondBpsKey, 2000)
	vip.SetDefault(FaultRefundBpsKey, 10000)
	vip.SetDefault(FaultTreasuryBpsKey, 0)
	vip.SetDefault(WeightPriceBpsKey, 6000)
	vip.SetDefault(WeightEtaBpsKey, 2500)
	vip.SetDefault(WeightRiskBpsKey, 1500)
	vip.SetDefault(ClaimWindowKey, 72*time.Hour)
	vip.SetDefault(AckWindowKey, 24*time.Hour)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the path holding the badger state.
func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetWebhookDbDir returns the path holding the webhook registry.
func GetWebhookDbDir() string {
	if dir := GetString(WebhookDbDirKey); dir != "" {
		return dir
	}
	return filepath.Join(GetDatadir(), WebhookLocation)
}

// GetPolicyParams assembles the policy bootstrap parameters.
func GetPolicyParams() domain.PolicyParams {
	return domain.PolicyParams{
		Treasury:            GetString(TreasuryAddrKey),
		SettlementAsset:     GetString(SettlementAssetKey),
		TreasuryBps:         uint16(GetInt(TreasuryBpsKey)),
		DefaultHoldbackBps:  uint16(GetInt(DefaultHoldbackBpsKey)),
		DefaultMicrobondBps: uint16(GetInt(DefaultMicrobondBpsKey)),
		MaxHoldbackBps:      uint16(GetInt(MaxHoldbackBpsKey)),
		MaxMicrobondBps:     uint16(GetInt(MaxMicrobondBpsKey)),
		FaultRefundBps:      uint16(GetInt(FaultRefundBpsKey)),
		FaultTreasuryBps:    uint16(GetInt(FaultTreasuryBpsKey)),
		WeightPriceBps:      uint16(GetInt(WeightPriceBpsKey)),
		WeightEtaBps:        uint16(GetInt(WeightEtaBpsKey)),
		WeightRiskBps:       uint16(GetInt(WeightRiskBpsKey)),
		ClaimWindowSec:      int64(GetDuration(ClaimWindowKey).Seconds()),
		AcceptAckWindowSec:  int64(GetDuration(AckWindowKey).Seconds()),
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("unsupported database type %s", dbType)
	}

	if len(GetString(AuthSecretKey)) <= 0 {
		return fmt.Errorf("missing auth secret")
	}

	if err := GetPolicyParams().Validate(); err != nil {
		return fmt.Errorf("invalid policy params: %w", err)
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) == DBInMemory {
		return nil
	}
	if err := makeDirectoryIfNotExists(GetDbDir()); err != nil {
		return err
	}
	return makeDirectoryIfNotExists(GetWebhookDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
