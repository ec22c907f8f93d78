package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v2"
)

// CryptoAccountSeed is one entry of the crypto accounts seed file.
type CryptoAccountSeed struct {
	Name        string `yaml:"name"`
	Symbol      string `yaml:"symbol"`
	Address     string `yaml:"address"`
	Network     string `yaml:"network"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
	Inactive    bool   `yaml:"inactive"`
}

type cryptoAccountsFile struct {
	Accounts []CryptoAccountSeed `yaml:"accounts"`
}

var defaultCryptoAccounts = []CryptoAccountSeed{
	{Name: "Bitcoin", Symbol: "BTC", Address: "1AGbgzEPd14hzLoDyYoDzwEH1MP5ZekmBi", Order: 1},
	{Name: "USDT", Symbol: "USDT", Address: "TKieHKDKegGjW2HojHxKgsNkZAota5CuDz", Network: "TRC20", Order: 2},
	{Name: "Ethereum", Symbol: "ETH", Address: "0x3C774Adef37D1D6ee2180D7845AE7020e5d79B29", Order: 3},
	{Name: "Litecoin", Symbol: "LTC", Address: "LdLygre8cKg7ak1tk3LTFTkTtBbhiUiCQn", Order: 4},
}

// LoadCryptoAccountSeeds reads the YAML seed file. A missing file yields the
// built-in defaults.
func LoadCryptoAccountSeeds(path string) ([]CryptoAccountSeed, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultCryptoAccounts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read crypto accounts file: %w", err)
	}

	var file cryptoAccountsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse crypto accounts file %s: %w", path, err)
	}
	return file.Accounts, nil
}
