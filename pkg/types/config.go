package types

import (
	"errors"
	"strings"
)

// Config holds the parameters for opening a library session.
type Config struct {
	DataDir         string  `json:"data_dir" yaml:"data_dir"`
	StoreFile       string  `json:"store_file" yaml:"store_file"`
	DailyRate       float64 `json:"daily_rate" yaml:"daily_rate"`
	DefaultLoanDays int     `json:"default_loan_days" yaml:"default_loan_days"`
	MaxLoanDays     int     `json:"max_loan_days" yaml:"max_loan_days"`
	Autosave        bool    `json:"autosave" yaml:"autosave"`
	Journal         bool    `json:"journal" yaml:"journal"`
}

// Defaults applied when a setting is absent.
const (
	DefaultStoreFile   = "books.json"
	DefaultDailyRate   = 1.5
	DefaultLoanDays    = 14
	DefaultMaxLoanDays = 0
)

// Config validation errors.
var (
	ErrStoreFileEmpty     = errors.New("store file must not be empty")
	ErrStoreFileNested    = errors.New("store file must be a plain file name")
	ErrDailyRateNegative  = errors.New("daily rate must not be negative")
	ErrLoanDaysInvalid    = errors.New("default loan days must be positive")
	ErrMaxLoanDaysInvalid = errors.New("max loan days must be zero or at least the default loan days")
)

// Validate checks that the Config is well-formed. It returns one of the
// config sentinel errors from this package on failure.
func (c Config) Validate() error {
	if strings.TrimSpace(c.StoreFile) == "" {
		return ErrStoreFileEmpty
	}
	if strings.ContainsAny(c.StoreFile, `/\`) {
		return ErrStoreFileNested
	}
	if c.DailyRate < 0 {
		return ErrDailyRateNegative
	}
	if c.DefaultLoanDays < 1 {
		return ErrLoanDaysInvalid
	}
	if c.MaxLoanDays != 0 && c.MaxLoanDays < c.DefaultLoanDays {
		return ErrMaxLoanDaysInvalid
	}
	return nil
}

// DefaultConfig returns a Config with every default applied and DataDir unset.
func DefaultConfig() Config {
	return Config{
		StoreFile:       DefaultStoreFile,
		DailyRate:       DefaultDailyRate,
		DefaultLoanDays: DefaultLoanDays,
		MaxLoanDays:     DefaultMaxLoanDays,
		Autosave:        true,
		Journal:         true,
	}
}
