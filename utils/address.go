package utils

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// NetParams maps a config network name onto btcd chain parameters.
func NetParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "", "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown bitcoin network %q", network)
	}
}

// ValidateCryptoAddress checks the deposit address format for symbols we can
// decode locally. Other symbols only need a non-empty address.
func ValidateCryptoAddress(symbol, address string, params *chaincfg.Params) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("address is required")
	}

	if !strings.EqualFold(symbol, "BTC") {
		return nil
	}

	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return fmt.Errorf("invalid BTC address: %w", err)
	}
	if !decoded.IsForNet(params) {
		return fmt.Errorf("BTC address %s is not for %s", address, params.Name)
	}
	return nil
}
